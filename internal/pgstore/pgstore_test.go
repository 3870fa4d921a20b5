package pgstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powermap/core/internal/db"
	"powermap/core/internal/model"
)

// openTestStore connects to POWERMAP_TEST_PG_DSN and recreates the schema.
// The tests are skipped when no DSN is configured.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("POWERMAP_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("POWERMAP_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	_, err = s.pool.Exec(ctx, `DROP TABLE IF EXISTS contacts, groups, group_contacts,
		relationship_types, relationships, custom_fields, custom_values`)
	require.NoError(t, err)
	_, err = s.pool.Exec(ctx, db.Schema)
	require.NoError(t, err)

	_, err = s.pool.Exec(ctx, `
		INSERT INTO contacts (id, display_name, contact_type, contact_sub_type, is_deleted) VALUES
			(1, 'Ada', 'Individual', NULL, 0),
			(2, 'Acme', 'Organization', 'Employer', 0),
			(3, 'Gone', 'Individual', NULL, 1);
		INSERT INTO groups (id, title) VALUES (10, 'Board');
		INSERT INTO group_contacts (group_id, contact_id, status) VALUES (10, 1, 'Added'), (10, 2, 'Added');
		INSERT INTO relationship_types (id, name_a_b, label_a_b, label_b_a, is_active) VALUES
			(1, 'Employee of', 'Employee of', 'Employer of', 1);
		INSERT INTO relationships (id, contact_id_a, contact_id_b, relationship_type_id, is_active) VALUES
			(100, 1, 2, 1, 1), (101, 2, 3, 1, 0);
		INSERT INTO custom_fields (id, name, label, data_type, is_active) VALUES
			(5, 'influence_level', 'Influence Level', 'Int', 1);
		INSERT INTO custom_values (entity_id, field_id, value) VALUES (1, 5, '4');
	`)
	require.NoError(t, err)
	return s
}

func TestPGStore_Contacts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ids, err := s.ListMembers(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	loc, ok, err := s.ResolveAttributeSchema(ctx, "influence_level")
	require.NoError(t, err)
	require.True(t, ok)

	recs, err := s.GetEntities(ctx, []int64{1, 2, 3}, []model.Locator{loc}, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "4", recs[0].Values[loc.Column])
	assert.Equal(t, "Employer", recs[1].SubCategory)
}

func TestPGStore_Relationships(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rels, err := s.GetRelationships(ctx, []int64{2}, nil)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, "Employee of", rels[0].TypeLabel)

	all, err := s.AllRelationships(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	types, err := s.RelationshipTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.True(t, types[0].IsActive)
}
