// Package network assembles the stakeholder graph from a contact store and
// derives the payloads served to the presentation layer.
package network

import (
	"context"

	"powermap/core/internal/model"
)

// Store is the contact & relationship store the pipeline reads from
type Store interface {
	ListMembers(ctx context.Context, groupID int64) ([]int64, error)
	GetEntities(ctx context.Context, ids []int64, locators []model.Locator, limit int) ([]model.EntityRecord, error)
	GetRelationships(ctx context.Context, ids []int64, typeIDs []int64) ([]model.RelationshipRecord, error)
	ResolveAttributeSchema(ctx context.Context, name string) (model.Locator, bool, error)
}

// Auditor is the whole-store view used by the data-quality audit and the
// relationship type listing.
type Auditor interface {
	AllEntityIDs(ctx context.Context) ([]int64, error)
	AllRelationships(ctx context.Context) ([]model.RelationshipRecord, error)
	RelationshipTypes(ctx context.Context) ([]model.RelationshipType, error)
}

// FullStore is implemented by both concrete stores
type FullStore interface {
	Store
	Auditor
}
