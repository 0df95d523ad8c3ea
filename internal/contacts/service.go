package contacts

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/wolfman30/contact-crm/internal/observability/metrics"
	"github.com/wolfman30/contact-crm/pkg/logging"
)

// ExportArchiver keeps a copy of each generated export.
type ExportArchiver interface {
	Enabled() bool
	ArchiveExport(ctx context.Context, name string, data []byte) error
}

// ListResult is one page of contacts plus paging totals.
type ListResult struct {
	History []*Contact `json:"history"`
	Page    int        `json:"page"`
	Pages   int64      `json:"pages"`
	Total   int64      `json:"total"`
}

// ExportFile is a generated spreadsheet ready for download.
type ExportFile struct {
	Name        string
	ContentType string
	Rows        int
	Data        []byte
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records operation outcomes.
func WithMetrics(m *metrics.ContactMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithArchiver uploads every export through a.
func WithArchiver(a ExportArchiver) Option {
	return func(s *Service) { s.archiver = a }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service implements contact create/list/get/update/delete/export.
type Service struct {
	repo     Repository
	logger   *logging.Logger
	metrics  *metrics.ContactMetrics
	archiver ExportArchiver
	now      func() time.Time
}

// NewService creates a contact service over repo.
func NewService(repo Repository, logger *logging.Logger, opts ...Option) *Service {
	if repo == nil {
		panic("contacts: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates a submission and stores it with a fresh created_at.
func (s *Service) Create(ctx context.Context, req SubmitRequest) (*Contact, error) {
	contact, err := req.Validate()
	if err != nil {
		s.observe("create", err)
		return nil, err
	}
	contact.CreatedAt = NewDate(s.now())

	id, err := s.repo.Insert(ctx, contact)
	if err != nil {
		s.observe("create", err)
		return nil, err
	}
	contact.ID = id
	s.observe("create", nil)
	return contact, nil
}

// List returns one page of contacts matching f, newest first.
func (s *Service) List(ctx context.Context, f Filter, page, limit int) (*ListResult, error) {
	p, err := NewPage(page, limit)
	if err != nil {
		s.observe("list", err)
		return nil, err
	}
	// validate the filter before touching the store
	if _, err := BuildFilter(f); err != nil {
		s.observe("list", err)
		return nil, err
	}

	history, err := s.repo.Find(ctx, f, p)
	if err != nil {
		s.observe("list", err)
		return nil, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		s.observe("list", err)
		return nil, err
	}
	if history == nil {
		history = []*Contact{}
	}
	s.observe("list", nil)
	return &ListResult{
		History: history,
		Page:    p.Number,
		Pages:   PageCount(total, p.Limit),
		Total:   total,
	}, nil
}

// Get fetches a contact by its hex identifier.
func (s *Service) Get(ctx context.Context, rawID string) (*Contact, error) {
	id, err := ParseID(rawID)
	if err != nil {
		s.observe("get", err)
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, id)
	s.observe("get", err)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies a partial update. An empty patch, or one that changes
// nothing, is reported as ErrContactNotFound.
func (s *Service) Update(ctx context.Context, rawID string, p Patch) error {
	id, err := ParseID(rawID)
	if err != nil {
		s.observe("update", err)
		return err
	}
	if p.IsEmpty() {
		s.observe("update", ErrContactNotFound)
		return ErrContactNotFound
	}
	res, err := s.repo.Update(ctx, id, p)
	if err != nil {
		s.observe("update", err)
		return err
	}
	if res.Modified == 0 {
		s.observe("update", ErrContactNotFound)
		return ErrContactNotFound
	}
	s.observe("update", nil)
	return nil
}

// Delete removes a contact and returns the number deleted.
func (s *Service) Delete(ctx context.Context, rawID string) (int64, error) {
	id, err := ParseID(rawID)
	if err != nil {
		s.observe("delete", err)
		return 0, err
	}
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.observe("delete", err)
		return 0, err
	}
	if n == 0 {
		s.observe("delete", ErrContactNotFound)
		return 0, ErrContactNotFound
	}
	s.observe("delete", nil)
	return n, nil
}

// Export renders the whole collection as an xlsx workbook.
func (s *Service) Export(ctx context.Context) (*ExportFile, error) {
	docs, err := s.repo.Documents(ctx)
	if err != nil {
		s.observe("export", err)
		return nil, err
	}
	table := Sanitize(OrderForExport(docs))

	var buf bytes.Buffer
	if err := table.WriteXLSX(&buf); err != nil {
		s.observe("export", err)
		return nil, err
	}

	file := &ExportFile{
		Name:        ExportFileName(s.now()),
		ContentType: XLSXContentType,
		Rows:        len(table.Rows),
		Data:        buf.Bytes(),
	}
	if s.archiver != nil && s.archiver.Enabled() {
		if err := s.archiver.ArchiveExport(ctx, file.Name, file.Data); err != nil {
			s.logger.Warn("export archive failed", "file", file.Name, "error", err)
		}
	}

	s.metrics.ObserveExport(file.Rows)
	s.observe("export", nil)
	s.logger.Info("contacts exported", "file", file.Name, "rows", file.Rows)
	return file, nil
}

func (s *Service) observe(operation string, err error) {
	s.metrics.ObserveOperation(operation, outcome(err))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrInvalidID):
		return "invalid_id"
	case errors.Is(err, ErrContactNotFound):
		return "not_found"
	default:
		return "error"
	}
}
