package network

import (
	"context"
	"fmt"
	"time"
)

// Issue severities
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// QualityStats counts the problems found by ValidateData
type QualityStats struct {
	TotalContacts            int `json:"total_contacts"`
	ContactsWithoutInfluence int `json:"contacts_without_influence"`
	ContactsWithoutSupport   int `json:"contacts_without_support"`
	OrphanedRelationships    int `json:"orphaned_relationships"`
	DuplicateRelationships   int `json:"duplicate_relationships"`
	InactiveRelationships    int `json:"inactive_relationships"`
	MissingRelationshipTypes int `json:"missing_relationship_types"`
}

// Issue is one data-quality finding
type Issue struct {
	Type               string `json:"type"`
	Severity           string `json:"severity"`
	Message            string `json:"message"`
	ContactID          int64  `json:"contact_id,omitempty"`
	ContactName        string `json:"contact_name,omitempty"`
	RelationshipID     int64  `json:"relationship_id,omitempty"`
	DuplicateOf        int64  `json:"duplicate_of,omitempty"`
	RelationshipTypeID int64  `json:"relationship_type_id,omitempty"`
}

// Recommendation suggests a cleanup step
type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// QualityReport is the result of a data-quality audit
type QualityReport struct {
	Stats           QualityStats     `json:"validation_stats"`
	Issues          []Issue          `json:"issues"`
	TotalIssues     int              `json:"total_issues"`
	CriticalIssues  int              `json:"critical_issues"`
	Score           float64          `json:"data_quality_score"`
	ValidatedAt     time.Time        `json:"validation_date"`
	Recommendations []Recommendation `json:"recommendations"`
	Error           string           `json:"error,omitempty"`
}

// ValidateData audits the whole store. A store failure is reported in the
// Error field with whatever counts were gathered so far.
func (s *Service) ValidateData(ctx context.Context) *QualityReport {
	report := &QualityReport{
		Issues:          []Issue{},
		Recommendations: []Recommendation{},
		ValidatedAt:     s.now(),
	}
	if err := s.audit(ctx, report); err != nil {
		s.logger.Warn("data validation failed", "error", err)
		report.Error = err.Error()
		report.Issues = []Issue{}
		return report
	}

	report.TotalIssues = len(report.Issues)
	for _, is := range report.Issues {
		if is.Severity == SeverityError {
			report.CriticalIssues++
		}
	}
	report.Score = 100
	if report.Stats.TotalContacts > 0 {
		penalty := report.CriticalIssues*10 + (report.TotalIssues-report.CriticalIssues)*2
		report.Score = float64(max(0, 100-penalty))
	}
	report.Recommendations = recommend(report.Stats)
	return report
}

func (s *Service) audit(ctx context.Context, report *QualityReport) error {
	if s.auditor == nil {
		return ErrNoAuditor
	}
	stats := &report.Stats
	attrs := s.pipeline.opts.Attributes

	ids, err := s.auditor.AllEntityIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing contacts: %w", err)
	}
	stats.TotalContacts = len(ids)
	contacts := make(map[int64]bool, len(ids))
	for _, id := range ids {
		contacts[id] = true
	}

	_, hasInfluence := s.resolver.Locate(ctx, attrs.Influence)
	_, hasSupport := s.resolver.Locate(ctx, attrs.Support)
	if (hasInfluence || hasSupport) && len(ids) > 0 {
		recs, err := s.store.GetEntities(ctx, ids, s.resolver.Locators(ctx, attrs.Influence, attrs.Support), 0)
		if err != nil {
			return fmt.Errorf("fetching contact attributes: %w", err)
		}
		for _, rec := range recs {
			if hasInfluence && !s.resolver.HasValue(ctx, rec, attrs.Influence) {
				stats.ContactsWithoutInfluence++
				report.Issues = append(report.Issues, Issue{
					Type: "missing_influence", Severity: SeverityWarning, Message: "Missing influence level",
					ContactID: rec.ID, ContactName: rec.DisplayName,
				})
			}
			if hasSupport && !s.resolver.HasValue(ctx, rec, attrs.Support) {
				stats.ContactsWithoutSupport++
				report.Issues = append(report.Issues, Issue{
					Type: "missing_support", Severity: SeverityWarning, Message: "Missing support level",
					ContactID: rec.ID, ContactName: rec.DisplayName,
				})
			}
		}
	}

	rels, err := s.auditor.AllRelationships(ctx)
	if err != nil {
		return fmt.Errorf("listing relationships: %w", err)
	}
	type dupKey struct{ a, b, typeID int64 }
	firstSeen := make(map[dupKey]int64)
	var activeTypes []int64
	typeSeen := make(map[int64]bool)
	for _, r := range rels {
		if !contacts[r.SourceID] || !contacts[r.TargetID] {
			stats.OrphanedRelationships++
			report.Issues = append(report.Issues, Issue{
				Type: "orphaned_relationship", Severity: SeverityError,
				Message: "Relationship references deleted contact(s)", RelationshipID: r.ID,
			})
		}
		if !r.IsActive {
			stats.InactiveRelationships++
			continue
		}
		key := dupKey{r.SourceID, r.TargetID, r.TypeID}
		if key.a > key.b {
			key.a, key.b = key.b, key.a
		}
		if orig, dup := firstSeen[key]; dup {
			stats.DuplicateRelationships++
			report.Issues = append(report.Issues, Issue{
				Type: "duplicate_relationship", Severity: SeverityWarning,
				Message: "Duplicate relationship found", RelationshipID: r.ID, DuplicateOf: orig,
			})
		} else {
			firstSeen[key] = r.ID
		}
		if !typeSeen[r.TypeID] {
			typeSeen[r.TypeID] = true
			activeTypes = append(activeTypes, r.TypeID)
		}
	}

	types, err := s.auditor.RelationshipTypes(ctx)
	if err != nil {
		return fmt.Errorf("listing relationship types: %w", err)
	}
	typeActive := make(map[int64]bool, len(types))
	for _, t := range types {
		typeActive[t.ID] = t.IsActive
	}
	for _, id := range activeTypes {
		active, known := typeActive[id]
		if known && active {
			continue
		}
		msg := "Relationship type not found"
		if known {
			msg = "Relationship type is inactive but has active relationships"
		}
		stats.MissingRelationshipTypes++
		report.Issues = append(report.Issues, Issue{
			Type: "missing_relationship_type", Severity: SeverityError,
			Message: msg, RelationshipTypeID: id,
		})
	}
	return nil
}

func recommend(stats QualityStats) []Recommendation {
	recs := []Recommendation{}
	add := func(typ, priority, format string, n int) {
		if n > 0 {
			recs = append(recs, Recommendation{Type: typ, Priority: priority, Message: fmt.Sprintf(format, n)})
		}
	}
	add("missing_data", "medium", "Set influence levels for %d contacts to improve network analysis accuracy", stats.ContactsWithoutInfluence)
	add("missing_data", "medium", "Set support levels for %d contacts to improve stakeholder mapping", stats.ContactsWithoutSupport)
	add("data_cleanup", "high", "Clean up %d orphaned relationships to prevent visualization errors", stats.OrphanedRelationships)
	add("data_cleanup", "medium", "Remove %d duplicate relationships to avoid network distortion", stats.DuplicateRelationships)
	add("configuration", "high", "Fix %d missing or inactive relationship types", stats.MissingRelationshipTypes)
	if stats.TotalContacts < 10 {
		recs = append(recs, Recommendation{
			Type:     "data_expansion",
			Priority: "low",
			Message:  "Consider adding more contacts to create a meaningful network visualization",
		})
	}
	return recs
}
