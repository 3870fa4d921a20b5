package network

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"powermap/core/internal/graph"
	"powermap/core/internal/metrics"
	"powermap/core/internal/model"
)

// ErrNoAuditor is returned by operations that need whole-store access the
// configured store does not offer.
var ErrNoAuditor = errors.New("store does not support whole-store listing")

// Metadata describes one network payload
type Metadata struct {
	AssemblyID         string               `json:"assembly_id"`
	GeneratedAt        time.Time            `json:"generated_at"`
	FiltersApplied     model.FilterCriteria `json:"filters_applied"`
	IsDemoData         bool                 `json:"is_demo_data"`
	TotalContacts      int                  `json:"total_contacts"`
	TotalRelationships int                  `json:"total_relationships"`
}

// NetworkData is the graph payload for the visualization
type NetworkData struct {
	Nodes    []model.Stakeholder  `json:"nodes"`
	Edges    []model.Relationship `json:"edges"`
	Stats    Stats                `json:"stats"`
	Metadata Metadata             `json:"metadata"`
}

// NetworkAnalysis bundles the graph payload with the full analysis
type NetworkAnalysis struct {
	NetworkData NetworkData `json:"network_data"`
	graph.AnalysisReport
}

// PathResult is a shortest path between two stakeholders
type PathResult struct {
	From  int64               `json:"from"`
	To    int64               `json:"to"`
	Path  []int64             `json:"path"`
	Nodes []model.Stakeholder `json:"nodes"`
	Hops  int                 `json:"hops"`
}

// ServiceOptions configures a Service
type ServiceOptions struct {
	Pipeline        PipelineOptions
	SchemaCacheSize int
	Analyzer        graph.AnalyzerConfig
}

// DefaultServiceOptions returns the standard settings
func DefaultServiceOptions() ServiceOptions {
	return ServiceOptions{
		Pipeline:        DefaultPipelineOptions(),
		SchemaCacheSize: DefaultSchemaCacheSize,
		Analyzer:        *graph.DefaultConfig(),
	}
}

// Service exposes the network operations to the presentation layer
type Service struct {
	store    Store
	auditor  Auditor
	resolver *Resolver
	pipeline *Pipeline
	analyzer graph.AnalyzerConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires a resolver and pipeline over store. Whole-store operations
// are available when store also implements Auditor. m and logger may be nil.
func NewService(store Store, opts ServiceOptions, m *metrics.Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	resolver := NewResolver(store, opts.SchemaCacheSize, m, logger)
	analyzer := opts.Analyzer
	analyzer.Metrics = m
	analyzer.Logger = logger

	s := &Service{
		store:    store,
		resolver: resolver,
		pipeline: NewPipeline(store, resolver, opts.Pipeline, m, logger),
		analyzer: analyzer,
		logger:   logger,
		now:      time.Now,
	}
	if a, ok := store.(Auditor); ok {
		s.auditor = a
	}
	return s
}

// Resolver returns the service's attribute resolver
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// Assemble builds the graph for filter
func (s *Service) Assemble(ctx context.Context, filter model.FilterCriteria) *model.Graph {
	return s.pipeline.Assemble(ctx, filter)
}

// GetNetworkData assembles the graph and its summary statistics
func (s *Service) GetNetworkData(ctx context.Context, filter model.FilterCriteria) NetworkData {
	return s.networkData(s.pipeline.Assemble(ctx, filter), filter)
}

func (s *Service) networkData(g *model.Graph, filter model.FilterCriteria) NetworkData {
	return NetworkData{
		Nodes: g.Nodes,
		Edges: g.Edges,
		Stats: ComputeStats(g),
		Metadata: Metadata{
			AssemblyID:         g.AssemblyID,
			GeneratedAt:        s.now(),
			FiltersApplied:     filter.Normalize(),
			IsDemoData:         g.Demo,
			TotalContacts:      len(g.Nodes),
			TotalRelationships: len(g.Edges),
		},
	}
}

// GetNetworkAnalysis assembles the graph once and runs every analysis over it
func (s *Service) GetNetworkAnalysis(ctx context.Context, filter model.FilterCriteria) NetworkAnalysis {
	g := s.pipeline.Assemble(ctx, filter)
	cfg := s.analyzer
	report := graph.Analyze(graph.NewSnapshot(g), &cfg)
	return NetworkAnalysis{
		NetworkData:    s.networkData(g, filter),
		AnalysisReport: *report,
	}
}

// ExportRows assembles the graph and flattens it for CSV download
func (s *Service) ExportRows(ctx context.Context, filter model.FilterCriteria) [][]string {
	return ToRows(s.pipeline.Assemble(ctx, filter))
}

// ShortestPath finds the shortest chain of relationships between two
// stakeholders in the graph selected by filter.
func (s *Service) ShortestPath(ctx context.Context, filter model.FilterCriteria, from, to int64) PathResult {
	g := s.pipeline.Assemble(ctx, filter)
	path := graph.ShortestPath(graph.NewSnapshot(g), from, to)
	res := PathResult{From: from, To: to, Path: path, Nodes: make([]model.Stakeholder, 0, len(path))}
	for _, id := range path {
		if n := g.Node(id); n != nil {
			res.Nodes = append(res.Nodes, *n)
		}
	}
	if len(path) > 0 {
		res.Hops = len(path) - 1
	}
	return res
}

// RelationshipTypes lists the active relationship types
func (s *Service) RelationshipTypes(ctx context.Context) ([]model.RelationshipType, error) {
	if s.auditor == nil {
		return nil, ErrNoAuditor
	}
	types, err := s.auditor.RelationshipTypes(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]model.RelationshipType, 0, len(types))
	for _, t := range types {
		if t.IsActive {
			active = append(active, t)
		}
	}
	return active, nil
}
