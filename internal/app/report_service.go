package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/waymark-app/waymark/internal/location"
	"github.com/waymark-app/waymark/internal/mapview"
	"github.com/waymark-app/waymark/internal/report"
)

// ReportService is the UI-facing surface over the report store: it
// resolves coordinates for new reports and forwards list mutations. All
// state lives in the store; the service itself is stateless.
type ReportService struct {
	store    *report.Store
	provider location.Provider
	logger   *slog.Logger
}

func NewReportService(store *report.Store, provider location.Provider, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ReportService{
		store:    store,
		provider: provider,
		logger:   logger,
	}
}

// Load hydrates the store from the settings backend.
func (s *ReportService) Load(ctx context.Context) error {
	if err := s.store.Load(ctx); err != nil {
		return fmt.Errorf("load reports: %w", err)
	}
	s.logger.Debug("reports loaded", slog.Int("count", s.store.Len()))
	return nil
}

// Create resolves the position when the request carries none, then
// appends and persists the new report.
func (s *ReportService) Create(ctx context.Context, req CreateReportRequest) (report.Report, error) {
	coords := req.Coordinates
	if coords == nil {
		if s.provider == nil {
			return report.Report{}, ErrNoLocation
		}
		current, err := s.provider.Current(ctx)
		if err != nil {
			return report.Report{}, fmt.Errorf("resolve location: %w", err)
		}
		coords = &current
	}

	r, err := s.store.Append(ctx, req.Title, req.Description, coords.Latitude, coords.Longitude)
	if err != nil {
		return r, err
	}
	s.logger.Info("report created",
		slog.String("title", r.Title),
		slog.Float64("latitude", r.Latitude),
		slog.Float64("longitude", r.Longitude))
	return r, nil
}

// List returns the current report sequence, oldest first.
func (s *ReportService) List() []report.Report {
	return s.store.Snapshot()
}

// Get returns the report at index.
func (s *ReportService) Get(index int) (report.Report, error) {
	reports := s.store.Snapshot()
	if index < 0 || index >= len(reports) {
		return report.Report{}, fmt.Errorf("%w: %d with %d report(s)", report.ErrIndexOutOfRange, index, len(reports))
	}
	return reports[index], nil
}

// Delete removes the report at index and persists the remaining list.
func (s *ReportService) Delete(ctx context.Context, index int) error {
	if err := s.store.DeleteAt(ctx, index); err != nil {
		return err
	}
	s.logger.Info("report deleted", slog.Int("index", index))
	return nil
}

// MapURL builds the external map link for the report at index.
func (s *ReportService) MapURL(index int) (string, error) {
	r, err := s.Get(index)
	if err != nil {
		return "", err
	}
	return mapview.SearchURL(r.Latitude, r.Longitude), nil
}

// Changed exposes the store's change signal for UI subscribers.
func (s *ReportService) Changed() <-chan struct{} {
	return s.store.Changed()
}
