package network

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"powermap/core/internal/metrics"
	"powermap/core/internal/model"
)

// Default attribute names as provisioned in the contact store
const (
	AttrInfluence = "influence_level"
	AttrSupport   = "support_level"
	AttrStrength  = "relationship_strength"
	AttrNotes     = "powermap_notes"
)

// AttributeNames maps the stakeholder attributes onto store field names
type AttributeNames struct {
	Influence string
	Support   string
	Strength  string
	Notes     string
}

// DefaultAttributeNames returns the standard field names
func DefaultAttributeNames() AttributeNames {
	return AttributeNames{
		Influence: AttrInfluence,
		Support:   AttrSupport,
		Strength:  AttrStrength,
		Notes:     AttrNotes,
	}
}

// PipelineOptions configures graph assembly
type PipelineOptions struct {
	// FallbackContactID is the base set when no filter selects anyone; 0 disables it
	FallbackContactID int64
	// ContactLimit caps the base set and each entity fetch; 0 means unlimited
	ContactLimit    int
	Attributes      AttributeNames
	DefaultLevel    int
	DefaultStrength int
}

// DefaultPipelineOptions returns the standard assembly settings
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		FallbackContactID: 1,
		ContactLimit:      1000,
		Attributes:        DefaultAttributeNames(),
		DefaultLevel:      model.MinLevel,
		DefaultStrength:   model.MinStrength,
	}
}

// Pipeline turns filter criteria into an assembled graph
type Pipeline struct {
	store    Store
	resolver *Resolver
	opts     PipelineOptions
	metrics  *metrics.Registry
	logger   *slog.Logger
}

// NewPipeline creates a pipeline. m and logger may be nil.
func NewPipeline(store Store, resolver *Resolver, opts PipelineOptions, m *metrics.Registry, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if resolver == nil {
		resolver = NewResolver(store, DefaultSchemaCacheSize, m, logger)
	}
	opts.DefaultLevel = model.ClampInt(opts.DefaultLevel, model.MinLevel, model.MaxLevel)
	opts.DefaultStrength = model.ClampInt(opts.DefaultStrength, model.MinStrength, model.MaxStrength)
	return &Pipeline{store: store, resolver: resolver, opts: opts, metrics: m, logger: logger}
}

// Assemble builds the graph selected by filter. It never fails: an empty base
// set gives an empty graph and a store failure on the base set gives DemoGraph.
func (p *Pipeline) Assemble(ctx context.Context, filter model.FilterCriteria) *model.Graph {
	start := time.Now()
	id := uuid.NewString()
	log := p.logger.With("assembly_id", id)
	f := filter.Normalize()

	g, outcome := p.assemble(ctx, f, log)
	g.AssemblyID = id

	p.metrics.RecordAssembly(outcome, len(g.Nodes), time.Since(start))
	log.Info("graph assembled",
		"outcome", outcome,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"elapsed", time.Since(start))
	return g
}

func (p *Pipeline) assemble(ctx context.Context, f model.FilterCriteria, log *slog.Logger) (*model.Graph, string) {
	base := p.baseIDs(ctx, f, log)
	if len(base) == 0 {
		return model.NewGraph(nil, nil), metrics.OutcomeEmpty
	}

	locators := p.resolver.Locators(ctx,
		p.opts.Attributes.Influence,
		p.opts.Attributes.Support,
		p.opts.Attributes.Strength,
		p.opts.Attributes.Notes,
	)

	records, err := p.store.GetEntities(ctx, base, locators, p.opts.ContactLimit)
	if err != nil {
		log.Warn("fetching base stakeholders failed, serving demo graph", "error", err)
		return DemoGraph(), metrics.OutcomeDemo
	}

	// every ID tried once, whether it made it into the graph or not
	attempted := make(map[int64]bool, len(base))
	for _, id := range base {
		attempted[id] = true
	}

	var nodes []model.Stakeholder
	present := make(map[int64]bool)
	accept := func(recs []model.EntityRecord) {
		for _, rec := range recs {
			attempted[rec.ID] = true
			s := p.stakeholder(ctx, rec)
			if s.Influence < f.InfluenceMin || s.Support < f.SupportMin || present[s.ID] {
				continue
			}
			present[s.ID] = true
			nodes = append(nodes, s)
		}
	}
	accept(records)

	rels, err := p.store.GetRelationships(ctx, base, f.RelationshipTypes)
	if err != nil {
		log.Warn("fetching relationships failed, serving demo graph", "error", err)
		return DemoGraph(), metrics.OutcomeDemo
	}
	rels = keepRelationships(rels, f.RelationshipTypes)

	// one extra round: neighbours reached through a relationship with an endpoint in the graph
	var neighbours []int64
	queued := make(map[int64]bool)
	for _, r := range rels {
		for _, pair := range [][2]int64{{r.SourceID, r.TargetID}, {r.TargetID, r.SourceID}} {
			from, to := pair[0], pair[1]
			if present[from] && !attempted[to] && !queued[to] {
				queued[to] = true
				neighbours = append(neighbours, to)
			}
		}
	}
	if len(neighbours) > 0 {
		recs, err := p.store.GetEntities(ctx, neighbours, locators, p.opts.ContactLimit)
		if err != nil {
			log.Warn("fetching neighbour stakeholders failed, dropping them",
				"neighbours", len(neighbours), "error", err)
		} else {
			accept(recs)
		}
	}

	strength := make(map[int64]int, len(nodes))
	for _, n := range nodes {
		strength[n.ID] = n.Strength
	}

	edges := make([]model.Relationship, 0, len(rels))
	seen := make(map[int64]bool, len(rels))
	for _, r := range rels {
		if !present[r.SourceID] || !present[r.TargetID] || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		label := strings.TrimSpace(r.TypeLabel)
		if label == "" {
			label = model.DefaultRelationshipLabel
		}
		edges = append(edges, model.Relationship{
			ID:       r.ID,
			Source:   r.SourceID,
			Target:   r.TargetID,
			TypeID:   r.TypeID,
			Type:     label,
			Strength: max(strength[r.SourceID], strength[r.TargetID]),
		})
	}

	if f.RelationshipOnly {
		nodes = touched(nodes, edges)
	}
	return model.NewGraph(nodes, edges), metrics.OutcomeOK
}

// baseIDs picks the starting set: explicit IDs, else group members, else the
// fallback. The set is capped at ContactLimit so the entity and relationship
// fetches see the same stakeholders.
func (p *Pipeline) baseIDs(ctx context.Context, f model.FilterCriteria, log *slog.Logger) []int64 {
	if len(f.ContactIDs) > 0 {
		return p.capBase(f.ContactIDs, log)
	}
	if f.GroupID != nil {
		ids, err := p.store.ListMembers(ctx, *f.GroupID)
		switch {
		case err != nil:
			log.Warn("listing group members failed, using fallback", "group", *f.GroupID, "error", err)
		case len(ids) == 0:
			log.Info("group has no members, using fallback", "group", *f.GroupID)
		default:
			return p.capBase(ids, log)
		}
	}
	if p.opts.FallbackContactID > 0 {
		return []int64{p.opts.FallbackContactID}
	}
	return nil
}

func (p *Pipeline) capBase(ids []int64, log *slog.Logger) []int64 {
	if limit := p.opts.ContactLimit; limit > 0 && len(ids) > limit {
		log.Info("base set truncated", "requested", len(ids), "limit", limit)
		return ids[:limit]
	}
	return ids
}

// stakeholder converts a store record, defaulting and clamping its attributes
func (p *Pipeline) stakeholder(ctx context.Context, rec model.EntityRecord) model.Stakeholder {
	attrs := p.opts.Attributes
	influence := model.ClampInt(p.resolver.IntFrom(ctx, rec, attrs.Influence, p.opts.DefaultLevel), model.MinLevel, model.MaxLevel)
	support := model.ClampInt(p.resolver.IntFrom(ctx, rec, attrs.Support, p.opts.DefaultLevel), model.MinLevel, model.MaxLevel)
	strength := model.ClampInt(p.resolver.IntFrom(ctx, rec, attrs.Strength, p.opts.DefaultStrength), model.MinStrength, model.MaxStrength)

	name := strings.TrimSpace(rec.DisplayName)
	if name == "" {
		name = fmt.Sprintf("Contact %d", rec.ID)
	}
	category := rec.Category
	if category == "" {
		category = model.CategoryIndividual
	}
	return model.Stakeholder{
		ID:          rec.ID,
		Name:        name,
		Category:    category,
		SubCategory: rec.SubCategory,
		Influence:   influence,
		Support:     support,
		Strength:    strength,
		Group:       model.InfluenceGroup(influence),
		Notes:       p.resolver.StringFrom(ctx, rec, attrs.Notes, ""),
	}
}

// keepRelationships drops inactive and self relationships and enforces the
// type allowlist even if the store ignored it.
func keepRelationships(rels []model.RelationshipRecord, typeIDs []int64) []model.RelationshipRecord {
	allowed := make(map[int64]bool, len(typeIDs))
	for _, id := range typeIDs {
		allowed[id] = true
	}
	out := rels[:0:0]
	for _, r := range rels {
		if !r.IsActive || r.SourceID == r.TargetID {
			continue
		}
		if len(allowed) > 0 && !allowed[r.TypeID] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// touched keeps the nodes that are an endpoint of at least one edge
func touched(nodes []model.Stakeholder, edges []model.Relationship) []model.Stakeholder {
	linked := make(map[int64]bool, len(edges)*2)
	for _, e := range edges {
		linked[e.Source] = true
		linked[e.Target] = true
	}
	out := make([]model.Stakeholder, 0, len(nodes))
	for _, n := range nodes {
		if linked[n.ID] {
			out = append(out, n)
		}
	}
	return out
}
