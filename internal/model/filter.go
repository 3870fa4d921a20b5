package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FilterCriteria selects which part of the network gets assembled.
// Every field is optional; zero thresholds mean "no restriction".
type FilterCriteria struct {
	GroupID           *int64  `json:"group_id,omitempty" validate:"omitempty,gt=0"`
	ContactIDs        []int64 `json:"contact_id,omitempty" validate:"omitempty,dive,gt=0"`
	InfluenceMin      int     `json:"influence_min" validate:"omitempty,min=1,max=5"`
	SupportMin        int     `json:"support_min" validate:"omitempty,min=1,max=5"`
	RelationshipTypes []int64 `json:"relationship_types,omitempty" validate:"omitempty,dive,gt=0"`
	RelationshipOnly  bool    `json:"only_relationship"`
}

// Validate rejects out-of-range criteria. Used at input boundaries; the
// pipeline itself only ever sees normalized criteria.
func (f FilterCriteria) Validate() error {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid filter: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid filter: %w", err)
	}
	return nil
}

// Normalize coerces criteria into their canonical form: thresholds default to
// 1 and are clamped to [1,5], non-positive IDs are dropped.
func (f FilterCriteria) Normalize() FilterCriteria {
	out := FilterCriteria{
		InfluenceMin:     ClampInt(f.InfluenceMin, MinLevel, MaxLevel),
		SupportMin:       ClampInt(f.SupportMin, MinLevel, MaxLevel),
		RelationshipOnly: f.RelationshipOnly,
	}
	if f.GroupID != nil && *f.GroupID > 0 {
		g := *f.GroupID
		out.GroupID = &g
	}
	out.ContactIDs = positiveUnique(f.ContactIDs)
	out.RelationshipTypes = positiveUnique(f.RelationshipTypes)
	return out
}

func positiveUnique(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
