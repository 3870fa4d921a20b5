package network

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powermap/core/internal/model"
)

func messyStore() *fakeStore {
	store := newFakeStore().
		person(1, "Ada", 5, 4, 1).
		person(2, "Grace", 3, 0, 1).
		person(3, "Linus", 0, 0, 1).
		link(10, 1, 2).
		link(11, 2, 1).  // duplicate of 10
		link(12, 1, 99). // orphaned
		link(13, 1, 3).  // inactive
		link(14, 2, 3).  // inactive type
		link(15, 1, 3)   // unknown type
	store.rels[3].IsActive = false
	store.rels[4].TypeID = 2
	store.rels[5].TypeID = 3
	store.types = []model.RelationshipType{
		{ID: 1, Label: "Colleague of", IsActive: true},
		{ID: 2, Label: "Advisor to", IsActive: false},
	}
	return store
}

func TestValidateData(t *testing.T) {
	svc := NewService(messyStore(), DefaultServiceOptions(), nil, nil)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	report := svc.ValidateData(context.Background())

	require.Empty(t, report.Error)
	assert.Equal(t, QualityStats{
		TotalContacts:            3,
		ContactsWithoutInfluence: 1,
		ContactsWithoutSupport:   2,
		OrphanedRelationships:    1,
		DuplicateRelationships:   1,
		InactiveRelationships:    1,
		MissingRelationshipTypes: 2,
	}, report.Stats)
	assert.Equal(t, 7, report.TotalIssues)
	assert.Equal(t, 3, report.CriticalIssues)
	assert.Equal(t, 62.0, report.Score)
	assert.Equal(t, fixed, report.ValidatedAt)
	assert.Len(t, report.Recommendations, 6)

	var dup Issue
	for _, is := range report.Issues {
		if is.Type == "duplicate_relationship" {
			dup = is
		}
	}
	assert.Equal(t, int64(11), dup.RelationshipID)
	assert.Equal(t, int64(10), dup.DuplicateOf)
	assert.Equal(t, SeverityWarning, dup.Severity)
}

func TestValidateData_EmptyStore(t *testing.T) {
	svc := NewService(newFakeStore(), DefaultServiceOptions(), nil, nil)
	report := svc.ValidateData(context.Background())

	assert.Empty(t, report.Error)
	assert.Equal(t, 100.0, report.Score)
	assert.Empty(t, report.Issues)
	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, "data_expansion", report.Recommendations[0].Type)
}

func TestValidateData_ScoreFloorsAtZero(t *testing.T) {
	store := newFakeStore().person(1, "Ada", 3, 3, 1)
	for i := int64(0); i < 12; i++ {
		store.link(100+i, 1, 500+i)
	}
	store.types = []model.RelationshipType{{ID: 1, IsActive: true}}

	report := NewService(store, DefaultServiceOptions(), nil, nil).ValidateData(context.Background())
	assert.Equal(t, 12, report.CriticalIssues)
	assert.Equal(t, 0.0, report.Score)
}

func TestValidateData_Failures(t *testing.T) {
	t.Run("store error", func(t *testing.T) {
		store := messyStore()
		store.failRelationships = errUnreachable
		report := NewService(store, DefaultServiceOptions(), nil, nil).ValidateData(context.Background())
		assert.Contains(t, report.Error, "listing relationships")
		assert.Empty(t, report.Issues)
	})

	t.Run("no auditor", func(t *testing.T) {
		report := NewService(storeOnly{messyStore()}, DefaultServiceOptions(), nil, nil).ValidateData(context.Background())
		assert.Equal(t, ErrNoAuditor.Error(), report.Error)
	})
}
