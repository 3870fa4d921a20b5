package db

import (
	"context"
	"database/sql"
	"fmt"

	"powermap/core/internal/model"
)

// scanRelationship scans a row into a RelationshipRecord. The row must have all 6 columns in standard order.
func scanRelationship(scanner interface{ Scan(dest ...any) error }) (model.RelationshipRecord, error) {
	var (
		r     model.RelationshipRecord
		label sql.NullString
	)
	err := scanner.Scan(&r.ID, &r.SourceID, &r.TargetID, &r.TypeID, &label, &r.IsActive)
	r.TypeLabel = label.String
	return r, err
}

const relationshipColumns = `
	r.id, r.contact_id_a, r.contact_id_b, r.relationship_type_id,
	rt.label_a_b, r.is_active`

// GetRelationships returns active relationships where either endpoint is in ids,
// optionally restricted to a set of relationship type IDs.
func (d *DB) GetRelationships(ctx context.Context, ids []int64, typeIDs []int64) ([]model.RelationshipRecord, error) {
	if len(ids) == 0 {
		return []model.RelationshipRecord{}, nil
	}

	set := idArray(ids)
	query := `SELECT ` + relationshipColumns + `
		FROM relationships r
		JOIN relationship_types rt ON rt.id = r.relationship_type_id
		WHERE r.is_active = 1
		  AND (r.contact_id_a IN ` + idSet + ` OR r.contact_id_b IN ` + idSet + `)`
	args := []any{set, set}

	if len(typeIDs) > 0 {
		query += ` AND r.relationship_type_id IN ` + idSet
		args = append(args, idArray(typeIDs))
	}
	query += ` ORDER BY r.id`

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching relationships: %w", err)
	}
	defer rows.Close()

	var rels []model.RelationshipRecord
	for rows.Next() {
		r, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		rels = append(rels, r)
	}
	return rels, rows.Err()
}

// AllRelationships returns every relationship, active or not. Relationships
// whose type row is missing are returned with an empty label.
func (d *DB) AllRelationships(ctx context.Context) ([]model.RelationshipRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `SELECT `+relationshipColumns+`
		FROM relationships r
		LEFT JOIN relationship_types rt ON rt.id = r.relationship_type_id
		ORDER BY r.id
	`)
	if err != nil {
		return nil, fmt.Errorf("fetching relationships: %w", err)
	}
	defer rows.Close()

	var rels []model.RelationshipRecord
	for rows.Next() {
		r, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		rels = append(rels, r)
	}
	return rels, rows.Err()
}

// RelationshipTypes returns all relationship types ordered by ID
func (d *DB) RelationshipTypes(ctx context.Context) ([]model.RelationshipType, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, label_a_b, label_b_a, name_a_b, is_active
		FROM relationship_types ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("fetching relationship types: %w", err)
	}
	defer rows.Close()

	var types []model.RelationshipType
	for rows.Next() {
		var t model.RelationshipType
		if err := rows.Scan(&t.ID, &t.Label, &t.ReverseLabel, &t.Name, &t.IsActive); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
