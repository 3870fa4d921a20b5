// Package pgstore reads the power map from a PostgreSQL copy of the CRM
// schema. It mirrors internal/db table for table.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"powermap/core/internal/model"
)

// Store is a pgx-backed contact & relationship store
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to the database described by dsn and verifies the connection
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

// ListMembers returns the IDs of contacts currently added to a group
func (s *Store) ListMembers(ctx context.Context, groupID int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT gc.contact_id
		FROM group_contacts gc
		JOIN contacts c ON c.id = gc.contact_id
		WHERE gc.group_id = $1 AND gc.status = 'Added' AND c.is_deleted = 0
		ORDER BY gc.contact_id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing group %d: %w", groupID, err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

// GetEntities returns non-deleted contacts with the values stored at each locator.
// limit <= 0 means no limit.
func (s *Store) GetEntities(ctx context.Context, ids []int64, locators []model.Locator, limit int) ([]model.EntityRecord, error) {
	if len(ids) == 0 {
		return []model.EntityRecord{}, nil
	}

	// NULL disables LIMIT in postgres
	var limitArg *int
	if limit > 0 {
		limitArg = &limit
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, display_name, contact_type, COALESCE(contact_sub_type, '')
		FROM contacts
		WHERE is_deleted = 0 AND id = ANY($1)
		ORDER BY id
		LIMIT $2
	`, ids, limitArg)
	if err != nil {
		return nil, fmt.Errorf("fetching contacts: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.EntityRecord, error) {
		var r model.EntityRecord
		err := row.Scan(&r.ID, &r.DisplayName, &r.Category, &r.SubCategory)
		r.Values = make(map[string]string, len(locators))
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning contacts: %w", err)
	}
	if len(records) == 0 || len(locators) == 0 {
		return records, nil
	}

	byID := make(map[int64]int, len(records))
	entityIDs := make([]int64, len(records))
	for i, r := range records {
		byID[r.ID] = i
		entityIDs[i] = r.ID
	}
	fieldColumns := make(map[int64]string, len(locators))
	fieldIDs := make([]int64, 0, len(locators))
	for _, loc := range locators {
		if _, ok := fieldColumns[loc.FieldID]; ok {
			continue
		}
		fieldColumns[loc.FieldID] = loc.Column
		fieldIDs = append(fieldIDs, loc.FieldID)
	}

	valueRows, err := s.pool.Query(ctx, `
		SELECT entity_id, field_id, value
		FROM custom_values
		WHERE entity_id = ANY($1) AND field_id = ANY($2) AND value IS NOT NULL
	`, entityIDs, fieldIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching custom values: %w", err)
	}
	var (
		entityID, fieldID int64
		value             string
	)
	_, err = pgx.ForEachRow(valueRows, []any{&entityID, &fieldID, &value}, func() error {
		records[byID[entityID]].Values[fieldColumns[fieldID]] = value
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning custom values: %w", err)
	}
	return records, nil
}

// ResolveAttributeSchema finds the active custom field backing an attribute name
func (s *Store) ResolveAttributeSchema(ctx context.Context, name string) (model.Locator, bool, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM custom_fields WHERE name = $1 AND is_active = 1`, name,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Locator{}, false, nil
	}
	if err != nil {
		return model.Locator{}, false, fmt.Errorf("resolving attribute %q: %w", name, err)
	}
	return model.Locator{FieldID: id, Column: "custom_" + strconv.FormatInt(id, 10)}, true, nil
}

const relationshipColumns = `
	r.id, r.contact_id_a, r.contact_id_b, r.relationship_type_id,
	COALESCE(rt.label_a_b, ''), r.is_active = 1`

func scanRelationship(row pgx.CollectableRow) (model.RelationshipRecord, error) {
	var r model.RelationshipRecord
	err := row.Scan(&r.ID, &r.SourceID, &r.TargetID, &r.TypeID, &r.TypeLabel, &r.IsActive)
	return r, err
}

// GetRelationships returns active relationships where either endpoint is in ids,
// optionally restricted to a set of relationship type IDs.
func (s *Store) GetRelationships(ctx context.Context, ids []int64, typeIDs []int64) ([]model.RelationshipRecord, error) {
	if len(ids) == 0 {
		return []model.RelationshipRecord{}, nil
	}
	rows, err := s.pool.Query(ctx, `SELECT `+relationshipColumns+`
		FROM relationships r
		JOIN relationship_types rt ON rt.id = r.relationship_type_id
		WHERE r.is_active = 1
		  AND (r.contact_id_a = ANY($1) OR r.contact_id_b = ANY($1))
		  AND (cardinality($2::bigint[]) = 0 OR r.relationship_type_id = ANY($2))
		ORDER BY r.id
	`, ids, nonNil(typeIDs))
	if err != nil {
		return nil, fmt.Errorf("fetching relationships: %w", err)
	}
	return pgx.CollectRows(rows, scanRelationship)
}

// AllRelationships returns every relationship, active or not
func (s *Store) AllRelationships(ctx context.Context) ([]model.RelationshipRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+relationshipColumns+`
		FROM relationships r
		LEFT JOIN relationship_types rt ON rt.id = r.relationship_type_id
		ORDER BY r.id
	`)
	if err != nil {
		return nil, fmt.Errorf("fetching relationships: %w", err)
	}
	return pgx.CollectRows(rows, scanRelationship)
}

// RelationshipTypes returns all relationship types ordered by ID
func (s *Store) RelationshipTypes(ctx context.Context) ([]model.RelationshipType, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, label_a_b, label_b_a, name_a_b, is_active = 1
		FROM relationship_types ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("fetching relationship types: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.RelationshipType, error) {
		var t model.RelationshipType
		err := row.Scan(&t.ID, &t.Label, &t.ReverseLabel, &t.Name, &t.IsActive)
		return t, err
	})
}

// AllEntityIDs returns the IDs of every non-deleted contact
func (s *Store) AllEntityIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM contacts WHERE is_deleted = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
