package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

type HistoryService struct {
	gateway  domain.HistoryGateway
	exporter domain.HistoryExporter
}

func NewHistoryService(gateway domain.HistoryGateway, exporter domain.HistoryExporter) *HistoryService {
	return &HistoryService{
		gateway:  gateway,
		exporter: exporter,
	}
}

// List returns the user's meals grouped by day in the named zone. A user with
// nothing logged gets an empty list.
func (s *HistoryService) List(ctx context.Context, token, timeZone string) ([]domain.HistoryDay, error) {
	loc, err := domain.LoadLocation(timeZone)
	if err != nil {
		return nil, err
	}

	entries, err := s.gateway.ListHistory(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNoHistory) {
			return []domain.HistoryDay{}, nil
		}
		return nil, fmt.Errorf("history service: failed to list history: %w", err)
	}

	return domain.GroupHistory(entries, loc), nil
}

func (s *HistoryService) Export(ctx context.Context, w io.Writer, token, timeZone string) error {
	days, err := s.List(ctx, token, timeZone)
	if err != nil {
		return err
	}

	if err := s.exporter.Export(w, days); err != nil {
		return fmt.Errorf("history service: failed to export history: %w", err)
	}
	return nil
}

func (s *HistoryService) ExportFormat() (contentType, extension string) {
	return s.exporter.ContentType(), s.exporter.FileExtension()
}
