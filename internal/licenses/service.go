package licenses

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/assetgrid/assetgrid/internal/shared"
)

// DefaultExpiryWindowDays is the lookahead applied when no window is given.
const DefaultExpiryWindowDays = 30

// Service wraps license inventory business rules.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// ListLicenses returns all licenses.
func (s *Service) ListLicenses(ctx context.Context) ([]License, error) {
	return s.repo.ListLicenses(ctx)
}

// Expiring returns licenses expiring within the given number of days.
func (s *Service) Expiring(ctx context.Context, days int) ([]License, error) {
	if days == 0 {
		days = DefaultExpiryWindowDays
	}
	if days < 0 {
		return nil, fmt.Errorf("%w: days must be positive", shared.ErrValidation)
	}
	cutoff := s.now().AddDate(0, 0, days)
	return s.repo.ExpiringBefore(ctx, cutoff)
}
