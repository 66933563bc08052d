package monitoring

import (
	"context"
	"log/slog"
)

// Service wraps device monitoring business rules.
type Service struct {
	repo      Repository
	threshold float64
	logger    *slog.Logger
}

// NewService constructs a new Service. A non-positive threshold falls back to
// the default.
func NewService(repo Repository, threshold float64, logger *slog.Logger) *Service {
	if threshold <= 0 {
		threshold = DefaultTrafficThreshold
	}
	return &Service{repo: repo, threshold: threshold, logger: logger}
}

// Devices returns all monitored devices.
func (s *Service) Devices(ctx context.Context) ([]Device, error) {
	return s.repo.ListDevices(ctx)
}

// Alerts returns devices that are offline or pushing abnormal traffic.
func (s *Service) Alerts(ctx context.Context) (Alerts, error) {
	offline, err := s.repo.OfflineDevices(ctx)
	if err != nil {
		return Alerts{}, err
	}
	abnormal, err := s.repo.DevicesAboveBandwidth(ctx, s.threshold)
	if err != nil {
		return Alerts{}, err
	}
	if offline == nil {
		offline = []Device{}
	}
	if abnormal == nil {
		abnormal = []Device{}
	}
	return Alerts{Offline: offline, AbnormalTraffic: abnormal}, nil
}
