package network

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"

	"powermap/core/internal/model"
)

var errUnreachable = errors.New("store unreachable")

// attribute field IDs used by the fake store
const (
	fieldInfluence int64 = 5
	fieldSupport   int64 = 6
	fieldStrength  int64 = 7
	fieldNotes     int64 = 8
)

func column(field int64) string { return "custom_" + strconv.FormatInt(field, 10) }

// fakeStore is an in-memory Store and Auditor with failure injection
type fakeStore struct {
	mu sync.Mutex

	contacts map[int64]model.EntityRecord
	deleted  map[int64]bool
	groups   map[int64][]int64
	rels     []model.RelationshipRecord
	fields   map[string]int64
	types    []model.RelationshipType

	failMembers       error
	failSchema        error
	failRelationships error
	failEntities      error
	// failEntitiesOnCall fails only the nth GetEntities call (1-based)
	failEntitiesOnCall int

	entityCalls int
	schemaCalls int
	// relationshipIDs holds the ids of the last GetRelationships call
	relationshipIDs []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		contacts: map[int64]model.EntityRecord{},
		deleted:  map[int64]bool{},
		groups:   map[int64][]int64{},
		fields: map[string]int64{
			AttrInfluence: fieldInfluence,
			AttrSupport:   fieldSupport,
			AttrStrength:  fieldStrength,
			AttrNotes:     fieldNotes,
		},
	}
}

// person adds a contact; zero attribute values are left unset
func (f *fakeStore) person(id int64, name string, influence, support, strength int) *fakeStore {
	values := map[string]string{}
	if influence != 0 {
		values[column(fieldInfluence)] = strconv.Itoa(influence)
	}
	if support != 0 {
		values[column(fieldSupport)] = strconv.Itoa(support)
	}
	if strength != 0 {
		values[column(fieldStrength)] = strconv.Itoa(strength)
	}
	f.contacts[id] = model.EntityRecord{
		ID: id, DisplayName: name, Category: model.CategoryIndividual, Values: values,
	}
	return f
}

func (f *fakeStore) link(id, a, b int64) *fakeStore {
	f.rels = append(f.rels, model.RelationshipRecord{
		ID: id, SourceID: a, TargetID: b, TypeID: 1, TypeLabel: "Colleague of", IsActive: true,
	})
	return f
}

func (f *fakeStore) ListMembers(_ context.Context, groupID int64) ([]int64, error) {
	if f.failMembers != nil {
		return nil, f.failMembers
	}
	return f.groups[groupID], nil
}

func (f *fakeStore) GetEntities(_ context.Context, ids []int64, locators []model.Locator, limit int) ([]model.EntityRecord, error) {
	f.mu.Lock()
	f.entityCalls++
	call := f.entityCalls
	f.mu.Unlock()
	if f.failEntities != nil {
		return nil, f.failEntities
	}
	if f.failEntitiesOnCall == call {
		return nil, errUnreachable
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	out := []model.EntityRecord{}
	for _, id := range slices.Compact(sorted) {
		rec, ok := f.contacts[id]
		if !ok || f.deleted[id] {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		values := map[string]string{}
		for _, loc := range locators {
			if v, ok := rec.Values[loc.Column]; ok {
				values[loc.Column] = v
			}
		}
		rec.Values = values
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeStore) GetRelationships(_ context.Context, ids []int64, typeIDs []int64) ([]model.RelationshipRecord, error) {
	if f.failRelationships != nil {
		return nil, f.failRelationships
	}
	f.relationshipIDs = slices.Clone(ids)
	out := []model.RelationshipRecord{}
	for _, r := range f.rels {
		if !r.IsActive {
			continue
		}
		if len(typeIDs) > 0 && !slices.Contains(typeIDs, r.TypeID) {
			continue
		}
		if slices.Contains(ids, r.SourceID) || slices.Contains(ids, r.TargetID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ResolveAttributeSchema(_ context.Context, name string) (model.Locator, bool, error) {
	f.mu.Lock()
	f.schemaCalls++
	f.mu.Unlock()
	if f.failSchema != nil {
		return model.Locator{}, false, f.failSchema
	}
	id, ok := f.fields[name]
	if !ok {
		return model.Locator{}, false, nil
	}
	return model.Locator{FieldID: id, Column: column(id)}, true, nil
}

func (f *fakeStore) AllEntityIDs(context.Context) ([]int64, error) {
	var ids []int64
	for id := range f.contacts {
		if !f.deleted[id] {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (f *fakeStore) AllRelationships(context.Context) ([]model.RelationshipRecord, error) {
	if f.failRelationships != nil {
		return nil, f.failRelationships
	}
	return f.rels, nil
}

func (f *fakeStore) RelationshipTypes(context.Context) ([]model.RelationshipType, error) {
	return f.types, nil
}

// storeOnly hides the Auditor methods of a store
type storeOnly struct{ Store }
