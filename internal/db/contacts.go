package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"powermap/core/internal/model"
)

// scanContact scans id, display_name, contact_type, contact_sub_type in that order
func scanContact(scanner interface{ Scan(dest ...any) error }) (model.EntityRecord, error) {
	var (
		r       model.EntityRecord
		subType sql.NullString
	)
	err := scanner.Scan(&r.ID, &r.DisplayName, &r.Category, &subType)
	r.SubCategory = subType.String
	return r, err
}

// ListMembers returns the IDs of contacts currently added to a group
func (d *DB) ListMembers(ctx context.Context, groupID int64) ([]int64, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT gc.contact_id
		FROM group_contacts gc
		JOIN contacts c ON c.id = gc.contact_id
		WHERE gc.group_id = ? AND gc.status = 'Added' AND c.is_deleted = 0
		ORDER BY gc.contact_id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing group %d: %w", groupID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetEntities returns non-deleted contacts with the values stored at each locator.
// limit <= 0 means no limit.
func (d *DB) GetEntities(ctx context.Context, ids []int64, locators []model.Locator, limit int) ([]model.EntityRecord, error) {
	if len(ids) == 0 {
		return []model.EntityRecord{}, nil
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, display_name, contact_type, contact_sub_type
		FROM contacts
		WHERE is_deleted = 0 AND id IN `+idSet+`
		ORDER BY id
		LIMIT ?
	`, idArray(ids), limit)
	if err != nil {
		return nil, fmt.Errorf("fetching contacts: %w", err)
	}

	var records []model.EntityRecord
	byID := make(map[int64]int)
	for rows.Next() {
		r, err := scanContact(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		r.Values = make(map[string]string, len(locators))
		byID[r.ID] = len(records)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(records) == 0 || len(locators) == 0 {
		return records, nil
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

	entityIDs := make([]int64, len(records))
	for i, r := range records {
		entityIDs[i] = r.ID
	}
	valueRows, err := d.conn.QueryContext(ctx, `
		SELECT entity_id, field_id, value
		FROM custom_values
		WHERE entity_id IN `+idSet+` AND field_id IN `+idSet+`
	`, idArray(entityIDs), idArray(fieldIDs))
	if err != nil {
		return nil, fmt.Errorf("fetching custom values: %w", err)
	}
	defer valueRows.Close()

	for valueRows.Next() {
		var (
			entityID, fieldID int64
			value             sql.NullString
		)
		if err := valueRows.Scan(&entityID, &fieldID, &value); err != nil {
			return nil, err
		}
		if !value.Valid {
			continue
		}
		records[byID[entityID]].Values[fieldColumns[fieldID]] = value.String
	}
	return records, valueRows.Err()
}

// ResolveAttributeSchema finds the active custom field backing an attribute name.
// Returns ok=false when no such field is configured.
func (d *DB) ResolveAttributeSchema(ctx context.Context, name string) (model.Locator, bool, error) {
	var id int64
	err := d.conn.QueryRowContext(ctx,
		`SELECT id FROM custom_fields WHERE name = ? AND is_active = 1`, name,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Locator{}, false, nil
	}
	if err != nil {
		return model.Locator{}, false, fmt.Errorf("resolving attribute %q: %w", name, err)
	}
	return model.Locator{FieldID: id, Column: "custom_" + strconv.FormatInt(id, 10)}, true, nil
}

// AllEntityIDs returns the IDs of every non-deleted contact
func (d *DB) AllEntityIDs(ctx context.Context) ([]int64, error) {
	rows, err := d.conn.QueryContext(ctx, `SELECT id FROM contacts WHERE is_deleted = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
