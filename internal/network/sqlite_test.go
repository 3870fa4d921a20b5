package network

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powermap/core/internal/db"
	"powermap/core/internal/model"
)

func openSeededDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.OpenDB(filepath.Join(t.TempDir(), "powermap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.EnsureSchema())

	for _, q := range []string{
		`INSERT INTO contacts (id, display_name, contact_type) VALUES
			(1, 'Mayor Reyes', 'Individual'),
			(2, 'Harbor Trust', 'Organization'),
			(3, 'Dock Workers Union', 'Organization'),
			(4, 'Port Authority', 'Organization')`,
		`INSERT INTO relationship_types (id, name_a_b, label_a_b, label_b_a) VALUES
			(1, 'Board member of', 'Board member of', 'Has board member')`,
		`INSERT INTO relationships (id, contact_id_a, contact_id_b, relationship_type_id) VALUES
			(10, 1, 2, 1), (11, 2, 3, 1), (12, 3, 4, 1)`,
		`INSERT INTO custom_fields (id, name) VALUES
			(5, 'influence_level'), (6, 'support_level'), (7, 'relationship_strength')`,
		`INSERT INTO custom_values (entity_id, field_id, value) VALUES
			(1, 5, '5'), (1, 6, '4'), (1, 7, '3'),
			(2, 5, '4'), (2, 6, '2'),
			(3, 5, '2'), (3, 6, '5'),
			(4, 5, '3')`,
	} {
		_, err := d.Conn().Exec(q)
		require.NoError(t, err)
	}
	return d
}

func TestService_SQLiteStore(t *testing.T) {
	ctx := context.Background()
	svc := NewService(openSeededDB(t), DefaultServiceOptions(), nil, nil)

	data := svc.GetNetworkData(ctx, model.FilterCriteria{})
	require.False(t, data.Metadata.IsDemoData)
	// fallback contact 1 plus its neighbour 2
	assert.Len(t, data.Nodes, 2)
	require.Len(t, data.Edges, 1)
	assert.Equal(t, 3, data.Edges[0].Strength)
	assert.Equal(t, "Board member of", data.Edges[0].Type)

	all := model.FilterCriteria{ContactIDs: []int64{1, 2, 3, 4}}
	path := svc.ShortestPath(ctx, all, 1, 4)
	assert.Equal(t, []int64{1, 2, 3, 4}, path.Path)

	report := svc.ValidateData(ctx)
	require.Empty(t, report.Error)
	assert.Equal(t, 4, report.Stats.TotalContacts)
	assert.Equal(t, 1, report.Stats.ContactsWithoutSupport)
	assert.Equal(t, 0, report.Stats.ContactsWithoutInfluence)

	types, err := svc.RelationshipTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 1)
}

func TestService_SQLiteLargeGroup(t *testing.T) {
	ctx := context.Background()
	d, err := db.OpenDB(filepath.Join(t.TempDir(), "powermap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.EnsureSchema())

	// more members than SQLite allows bound variables in one statement
	const members = 20000
	for _, q := range []string{
		`INSERT INTO contacts (id, display_name)
			WITH RECURSIVE n(i) AS (SELECT 1 UNION ALL SELECT i + 1 FROM n WHERE i < 20000)
			SELECT i, 'Member ' || i FROM n`,
		`INSERT INTO groups (id, title) VALUES (1, 'Coalition')`,
		`INSERT INTO group_contacts (group_id, contact_id) SELECT 1, id FROM contacts`,
		`INSERT INTO relationship_types (id, name_a_b, label_a_b, label_b_a) VALUES
			(1, 'Ally of', 'Ally of', 'Ally of')`,
		`INSERT INTO relationships (id, contact_id_a, contact_id_b, relationship_type_id) VALUES (1, 1, 2, 1)`,
		`INSERT INTO custom_fields (id, name) VALUES (5, 'influence_level')`,
		`INSERT INTO custom_values (entity_id, field_id, value) VALUES (1, 5, '4')`,
	} {
		_, err := d.Conn().Exec(q)
		require.NoError(t, err)
	}

	svc := NewService(d, DefaultServiceOptions(), nil, nil)
	group := int64(1)
	data := svc.GetNetworkData(ctx, model.FilterCriteria{GroupID: &group})
	require.False(t, data.Metadata.IsDemoData)
	assert.Len(t, data.Nodes, DefaultPipelineOptions().ContactLimit)
	require.Len(t, data.Edges, 1)
	assert.Equal(t, int64(1), data.Edges[0].ID)

	report := svc.ValidateData(ctx)
	require.Empty(t, report.Error)
	assert.Equal(t, members, report.Stats.TotalContacts)
	assert.Equal(t, members-1, report.Stats.ContactsWithoutInfluence)
}
