package integrity

import (
	"context"
	"errors"

	"deluge-submit/core/deluge"
	"deluge-submit/core/storage"
	"deluge-submit/feature/history"
	"deluge-submit/feature/integrity/checks"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrSkipped is returned by a check whose backend is not configured.
var ErrSkipped = errors.New("not configured")

// Result is the outcome of one check.
type Result struct {
	Status string `json:"status"` // "ok", "error", "skipped"
	Error  string `json:"error,omitempty"`
	Detail any    `json:"detail,omitempty"`
}

// Report maps check names to their results.
type Report map[string]Result

// OK reports whether no check failed. Skipped checks do not count as failures.
func (r Report) OK() bool {
	for _, res := range r {
		if res.Status == "error" {
			return false
		}
	}
	return true
}

// Options configures the backends a Service checks. Nil backends are skipped.
type Options struct {
	Prober checks.Prober
	Deluge deluge.Config

	Storage storage.Client
	Bucket  string
	Region  string
	Prefix  string

	DB *gorm.DB
}

// Service handles integrity checks.
type Service struct {
	opts   Options
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{opts: opts, logger: logger}
}

// CheckDeluge probes the client and opens one session.
func (s *Service) CheckDeluge(ctx context.Context) (*checks.DelugeReport, error) {
	if s.opts.Prober == nil {
		return nil, ErrSkipped
	}
	return checks.CheckDeluge(ctx, s.opts.Prober, s.opts.Deluge)
}

// CheckStorage verifies the archive bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.opts.Storage == nil {
		return nil, ErrSkipped
	}
	return checks.CheckStorage(ctx, s.opts.Storage, s.opts.Bucket, s.opts.Prefix)
}

// FixStorage creates the archive bucket when missing.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.opts.Storage == nil {
		return ErrSkipped
	}
	return checks.FixStorage(ctx, s.opts.Storage, s.opts.Bucket, s.opts.Region, s.logger)
}

// CheckHistory verifies the submissions table against the history model.
func (s *Service) CheckHistory() (*checks.SchemaReport, error) {
	if s.opts.DB == nil {
		return nil, ErrSkipped
	}
	return checks.CheckSchema(s.opts.DB, history.Submission{})
}

// RunAll runs every check concurrently. The report always holds every check;
// the returned error is the first failure.
func (s *Service) RunAll(ctx context.Context) (Report, error) {
	results := make([]Result, 3)
	names := []string{"deluge", "storage", "history"}

	var g errgroup.Group
	g.Go(func() error {
		r, err := s.CheckDeluge(ctx)
		results[0] = toResult(r, err)
		return failure("deluge", err)
	})
	g.Go(func() error {
		r, err := s.CheckStorage(ctx)
		results[1] = toResult(r, err)
		return failure("storage", err)
	})
	g.Go(func() error {
		r, err := s.CheckHistory()
		if err == nil && !r.Matched {
			results[2] = Result{Status: "error", Error: "schema mismatch", Detail: r}
			return failure("history", errors.New("schema mismatch"))
		}
		results[2] = toResult(r, err)
		return failure("history", err)
	})
	err := g.Wait()

	report := make(Report, len(names))
	for i, name := range names {
		report[name] = results[i]
	}
	return report, err
}

func toResult[T any](detail *T, err error) Result {
	switch {
	case errors.Is(err, ErrSkipped):
		return Result{Status: "skipped"}
	case err != nil:
		return Result{Status: "error", Error: err.Error()}
	default:
		return Result{Status: "ok", Detail: detail}
	}
}

func failure(name string, err error) error {
	if err == nil || errors.Is(err, ErrSkipped) {
		return nil
	}
	return &CheckError{Check: name, Err: err}
}

// CheckError names the check that failed.
type CheckError struct {
	Check string
	Err   error
}

func (e *CheckError) Error() string {
	return e.Check + " check failed: " + e.Err.Error()
}

func (e *CheckError) Unwrap() error {
	return e.Err
}
