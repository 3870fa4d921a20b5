package db

import "fmt"

// Schema is the subset of the CRM schema the power map reads from
const Schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	contact_type TEXT NOT NULL DEFAULT 'Individual',
	contact_sub_type TEXT,
	is_deleted INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS groups (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS group_contacts (
	group_id INTEGER NOT NULL,
	contact_id INTEGER NOT NULL,
	status TEXT NOT NULL DEFAULT 'Added',
	PRIMARY KEY (group_id, contact_id)
);
CREATE TABLE IF NOT EXISTS relationship_types (
	id INTEGER PRIMARY KEY,
	name_a_b TEXT NOT NULL DEFAULT '',
	label_a_b TEXT NOT NULL DEFAULT '',
	label_b_a TEXT NOT NULL DEFAULT '',
	is_active INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS relationships (
	id INTEGER PRIMARY KEY,
	contact_id_a INTEGER NOT NULL,
	contact_id_b INTEGER NOT NULL,
	relationship_type_id INTEGER NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS custom_fields (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	label TEXT NOT NULL DEFAULT '',
	data_type TEXT NOT NULL DEFAULT 'String',
	is_active INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS custom_values (
	entity_id INTEGER NOT NULL,
	field_id INTEGER NOT NULL,
	value TEXT,
	PRIMARY KEY (entity_id, field_id)
);
CREATE INDEX IF NOT EXISTS idx_relationships_a ON relationships(contact_id_a);
CREATE INDEX IF NOT EXISTS idx_relationships_b ON relationships(contact_id_b);
`

// EnsureSchema creates any missing tables. Existing data is left untouched.
func (d *DB) EnsureSchema() error {
	if _, err := d.conn.Exec(Schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
