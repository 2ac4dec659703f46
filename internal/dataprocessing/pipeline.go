package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"

	"dashgen/pkg/contracts/domain"
)

// PreviewRows is how many leading rows a file report carries.
const PreviewRows = 5

// ProgressEvent describes one pipeline step for the rendering
// collaborator (websocket hub, CLI output).
type ProgressEvent struct {
	BatchID  string `json:"batch_id"`
	Stage    string `json:"stage"`
	Filename string `json:"filename,omitempty"`
	Message  string `json:"message,omitempty"`
	Level    string `json:"level"`
}

// ProgressSink receives pipeline progress events. Implementations must
// not block; the pipeline publishes fire-and-forget.
type ProgressSink interface {
	PublishProgress(event ProgressEvent)
}

type noopSink struct{}

func (noopSink) PublishProgress(ProgressEvent) {}

// BatchFile is one uploaded file plus its user-declared category.
type BatchFile struct {
	Name     string
	Category domain.Category
	Reader   io.Reader
}

// BatchResult is the full outcome of processing one batch.
type BatchResult struct {
	// Combined is the raw fact table (sales-category union) before
	// date coercion; nil when no sales file survived loading.
	Combined *domain.Table
	// Fact is the post-date-parse fact table all filtering starts
	// from; nil until the date role is resolved.
	Fact   *domain.Table
	Roles  domain.RoleAssignment
	Report domain.BatchReport
}

// Processor runs the per-file and per-batch pipeline stages. Each
// Process call owns its tables exclusively; a Processor is safe for
// concurrent batches because it keeps no working state.
type Processor struct {
	logger *slog.Logger
	sink   ProgressSink
}

// NewProcessor creates a pipeline processor. A nil sink discards
// progress events.
func NewProcessor(logger *slog.Logger, sink ProgressSink) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = noopSink{}
	}
	return &Processor{
		logger: logger.With(slog.String("component", "pipeline")),
		sink:   sink,
	}
}

// ProcessFile runs load → standardize → clean for a single file. A
// failure at any stage is captured in the report and the table is nil;
// the batch continues with its remaining files.
func (p *Processor) ProcessFile(f BatchFile) (*domain.Table, domain.FileReport) {
	report := domain.FileReport{Filename: f.Name, Category: f.Category}

	raw, err := Load(f.Name, f.Reader)
	if err != nil {
		report.Error = err.Error()
		p.logger.Warn("file skipped",
			slog.String("file", f.Name),
			slog.String("error", err.Error()))
		return nil, report
	}

	canonical, err := Standardize(raw)
	if err != nil {
		report.Error = err.Error()
		p.logger.Warn("file skipped",
			slog.String("file", f.Name),
			slog.String("error", err.Error()))
		return nil, report
	}

	cleaned, cleaning := Clean(canonical)
	report.Cleaning = cleaning
	report.Columns = cleaned.ColumnNames()
	report.Preview = cleaned.HeadRows(PreviewRows)

	p.logger.Info("file processed",
		slog.String("file", f.Name),
		slog.String("category", string(f.Category)),
		slog.Int("rows", cleaned.NumRows()),
		slog.Int("deduplicated", cleaning.Deduplicated))
	return cleaned, report
}

// ProcessBatch runs the whole pipeline over one batch of files:
// per-file stages, sales-bucket combination, role classification and
// date normalization. Files are processed sequentially in upload
// order; per-file errors are isolated.
func (p *Processor) ProcessBatch(batchID string, files []BatchFile) *BatchResult {
	result := &BatchResult{}
	bucket := NewBucket()

	for _, f := range files {
		p.publish(batchID, "load", f.Name, "processing file", "info")
		table, report := p.ProcessFile(f)
		result.Report.Files = append(result.Report.Files, report)
		if table == nil {
			p.publish(batchID, "load", f.Name, report.Error, "error")
			continue
		}
		bucket.Add(f.Category, f.Name, table)
	}

	result.Combined = bucket.Combine()
	if result.Combined == nil {
		result.Report.Warnings = append(result.Report.Warnings, "no sales tables in batch; dashboard skipped")
		p.publish(batchID, "combine", "", "no sales tables", "warning")
		return result
	}

	result.Roles = Classify(result.Combined.ColumnNames())
	result.Report.Roles = result.Roles
	for _, missing := range result.Roles.Unresolved() {
		msg := fmt.Sprintf("could not auto-detect the %s column; supply one to enable aggregation", missing)
		result.Report.Warnings = append(result.Report.Warnings, msg)
		p.publish(batchID, "classify", "", msg, "warning")
	}

	p.resolveDates(batchID, result)
	p.publish(batchID, "complete", "", "batch processed", "success")
	return result
}

// ApplyRoleOverrides replays date normalization after the caller
// supplied fallback columns for unresolved roles. Overrides naming a
// column absent from the schema are rejected.
func (p *Processor) ApplyRoleOverrides(batchID string, result *BatchResult, overrides map[domain.Role]string) error {
	if result.Combined == nil {
		return ErrEmptyResult
	}
	for role, col := range overrides {
		if !result.Combined.HasColumn(col) {
			return fmt.Errorf("column %q not present in schema", col)
		}
		result.Roles.SetColumn(role, col)
	}
	result.Report.Roles = result.Roles
	p.resolveDates(batchID, result)
	return nil
}

// resolveDates coerces the date column once it is known, recording the
// destructive drop count for reporting.
func (p *Processor) resolveDates(batchID string, result *BatchResult) {
	if result.Roles.Date == "" {
		return
	}
	fact, dropped, err := NormalizeDates(result.Combined, result.Roles.Date)
	if err != nil {
		return
	}
	result.Fact = fact
	result.Report.RowsDroppedBadDates = dropped
	if dropped > 0 {
		msg := fmt.Sprintf("%d rows dropped: unparseable %s values", dropped, result.Roles.Date)
		result.Report.Warnings = append(result.Report.Warnings, msg)
		p.publish(batchID, "dates", "", msg, "warning")
	}
	p.logger.Info("dates normalized",
		slog.String("batch_id", batchID),
		slog.String("date_column", result.Roles.Date),
		slog.Int("rows", fact.NumRows()),
		slog.Int("dropped", dropped))
}

func (p *Processor) publish(batchID, stage, filename, message, level string) {
	p.sink.PublishProgress(ProgressEvent{
		BatchID:  batchID,
		Stage:    stage,
		Filename: filename,
		Message:  message,
		Level:    level,
	})
}
