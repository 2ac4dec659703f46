package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"dashgen/internal/dataprocessing"
	"dashgen/internal/exporter"
	"dashgen/pkg/contracts/domain"
)

// BatchView is the externally visible state of one batch session.
type BatchView struct {
	ID        string                `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	Roles     domain.RoleAssignment `json:"roles"`
	Filters   domain.FilterState    `json:"filters"`
	Report    domain.BatchReport    `json:"report"`
	// Ready is true once the fact table exists, meaning amount and
	// date roles resolved and aggregation can run.
	Ready bool `json:"ready"`
}

// batchSession pairs a processed batch with its current filter state.
// The filter state is the only mutable piece; every summary recomputes
// from the immutable fact table.
type batchSession struct {
	id        string
	createdAt time.Time
	result    *dataprocessing.BatchResult
	filters   domain.FilterState
}

// DashboardService owns batch sessions and derives dashboard summaries
// from them. Sessions live in memory for the lifetime of the process.
type DashboardService struct {
	processor *dataprocessing.Processor
	csv       *exporter.CSVWriter
	logger    *slog.Logger

	mu      sync.RWMutex
	batches map[string]*batchSession
}

// NewDashboardService creates a dashboard service. The sink receives
// pipeline progress events; nil discards them. The CSV writer may be
// nil when export is not needed (tests, CLI with its own writer).
func NewDashboardService(logger *slog.Logger, sink dataprocessing.ProgressSink, csv *exporter.CSVWriter) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		processor: dataprocessing.NewProcessor(logger, sink),
		csv:       csv,
		logger:    logger.With(slog.String("service", "dashboard")),
		batches:   make(map[string]*batchSession),
	}
}

// CreateBatch runs the full pipeline over the uploaded files and stores
// the result as a new session.
func (s *DashboardService) CreateBatch(ctx context.Context, files []dataprocessing.BatchFile) (*BatchView, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	id := uuid.New().String()
	result := s.processor.ProcessBatch(id, files)

	sess := &batchSession{
		id:        id,
		createdAt: time.Now().UTC(),
		result:    result,
	}

	s.mu.Lock()
	s.batches[id] = sess
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "batch created",
		slog.String("batch_id", id),
		slog.Int("files", len(files)),
		slog.Bool("ready", result.Fact != nil))

	return s.view(sess), nil
}

// GetBatch returns the session state for one batch.
func (s *DashboardService) GetBatch(ctx context.Context, id string) (*BatchView, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// ListBatches returns all sessions, newest first.
func (s *DashboardService) ListBatches(ctx context.Context) []*BatchView {
	s.mu.RLock()
	sessions := make([]*batchSession, 0, len(s.batches))
	for _, sess := range s.batches {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].createdAt.After(sessions[j].createdAt)
	})

	views := make([]*BatchView, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, s.view(sess))
	}
	return views
}

// DeleteBatch removes a session.
func (s *DashboardService) DeleteBatch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.batches[id]; !ok {
		return ErrBatchNotFound
	}
	delete(s.batches, id)
	return nil
}

// SetRoles applies user-supplied fallback columns for roles the
// classifier could not resolve, then replays date normalization.
func (s *DashboardService) SetRoles(ctx context.Context, id string, overrides map[domain.Role]string) (*BatchView, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	if err := s.processor.ApplyRoleOverrides(id, sess.result, overrides); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	s.logger.InfoContext(ctx, "roles overridden",
		slog.String("batch_id", id),
		slog.Bool("ready", sess.result.Fact != nil))
	return s.view(sess), nil
}

// SetFilters replaces the session's filter state. The state is only a
// selection; summaries recompute from the fact table, so changing
// filters never loses rows.
func (s *DashboardService) SetFilters(ctx context.Context, id string, fs domain.FilterState) (*BatchView, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess.filters = fs
	s.mu.Unlock()

	return s.view(sess), nil
}

// Summary derives the dashboard output for the batch under its current
// filter state.
func (s *DashboardService) Summary(ctx context.Context, id string) (*domain.DashboardSummary, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	result, filters := sess.result, s.filtersOf(sess)
	if result.Combined == nil {
		return nil, dataprocessing.ErrEmptyResult
	}
	if result.Fact == nil || result.Roles.Amount == "" {
		return nil, dataprocessing.ErrRoleUnresolved
	}

	filtered := dataprocessing.ApplyFilters(result.Fact, result.Roles, filters)

	summary := &domain.DashboardSummary{
		TotalRevenue: dataprocessing.SumAmount(filtered, result.Roles.Amount),
		RowCount:     filtered.NumRows(),
		Options:      dataprocessing.Options(result.Fact, result.Roles),
		Warnings:     append([]string(nil), result.Report.Warnings...),
	}

	if filtered.NumRows() == 0 {
		summary.Warnings = append(summary.Warnings, "no rows match the current filters")
		return summary, nil
	}

	if series, err := dataprocessing.MonthlySeries(filtered, result.Roles.Date, result.Roles.Amount); err == nil {
		summary.MonthlySeries = series
	}
	if result.Roles.Product != "" {
		if totals, err := dataprocessing.CategoryTotals(filtered, result.Roles.Product, result.Roles.Amount, dataprocessing.TopN); err == nil {
			summary.TopProducts = totals
		}
	}
	if result.Roles.Location != "" {
		if totals, err := dataprocessing.CategoryTotals(filtered, result.Roles.Location, result.Roles.Amount, dataprocessing.TopN); err == nil {
			summary.TopLocations = totals
		}
	}
	if result.Roles.Region != "" {
		// Full distribution: the region view is proportional.
		if totals, err := dataprocessing.CategoryTotals(filtered, result.Roles.Region, result.Roles.Amount, 0); err == nil {
			summary.RegionShare = totals
		}
	}

	return summary, nil
}

// CustomChart builds a user-chosen X/Y aggregation over the filtered
// fact table.
func (s *DashboardService) CustomChart(ctx context.Context, id, xCol, yCol string, shape domain.ChartShape, grouped bool) (*domain.CustomChart, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	result, filters := sess.result, s.filtersOf(sess)
	if result.Fact == nil {
		return nil, ErrNoFactTable
	}

	filtered := dataprocessing.ApplyFilters(result.Fact, result.Roles, filters)
	return dataprocessing.Aggregate(filtered, xCol, yCol, shape, grouped)
}

// Export writes the filtered fact table and the summary aggregations
// as CSV files under a per-batch reports subdirectory, returning the
// relative paths written.
func (s *DashboardService) Export(ctx context.Context, id string) ([]string, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	if s.csv == nil {
		return nil, fmt.Errorf("export not configured")
	}

	result, filters := sess.result, s.filtersOf(sess)
	if result.Fact == nil || result.Roles.Amount == "" {
		return nil, dataprocessing.ErrRoleUnresolved
	}

	filtered := dataprocessing.ApplyFilters(result.Fact, result.Roles, filters)
	dir := "batch-" + id

	var written []string
	factPath := filepath.Join(dir, "fact.csv")
	if err := s.csv.ExportTable(factPath, filtered); err != nil {
		return nil, err
	}
	written = append(written, factPath)

	if series, err := dataprocessing.MonthlySeries(filtered, result.Roles.Date, result.Roles.Amount); err == nil {
		path := filepath.Join(dir, "monthly.csv")
		if err := s.csv.ExportMonthlySeries(path, series); err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	categories := []struct {
		column string
		header string
		file   string
		limit  int
	}{
		{result.Roles.Product, "product", "products.csv", dataprocessing.TopN},
		{result.Roles.Location, "location", "locations.csv", dataprocessing.TopN},
		{result.Roles.Region, "region", "regions.csv", 0},
	}
	for _, c := range categories {
		if c.column == "" {
			continue
		}
		totals, err := dataprocessing.CategoryTotals(filtered, c.column, result.Roles.Amount, c.limit)
		if err != nil {
			continue
		}
		path := filepath.Join(dir, c.file)
		if err := s.csv.ExportGroupTotals(path, c.header, totals); err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	s.logger.InfoContext(ctx, "batch exported",
		slog.String("batch_id", id),
		slog.Int("files", len(written)))
	return written, nil
}

// BatchCount returns the number of live sessions.
func (s *DashboardService) BatchCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.batches)
}

func (s *DashboardService) session(id string) (*batchSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.batches[id]
	if !ok {
		return nil, ErrBatchNotFound
	}
	return sess, nil
}

func (s *DashboardService) filtersOf(sess *batchSession) domain.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sess.filters
}

func (s *DashboardService) view(sess *batchSession) *BatchView {
	return &BatchView{
		ID:        sess.id,
		CreatedAt: sess.createdAt,
		Roles:     sess.result.Roles,
		Filters:   s.filtersOf(sess),
		Report:    sess.result.Report,
		Ready:     sess.result.Fact != nil,
	}
}
