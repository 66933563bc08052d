// Package dashboard aggregates cross-module counts for the overview screen.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/assetgrid/assetgrid/internal/assets"
	"github.com/assetgrid/assetgrid/internal/licenses"
	"github.com/assetgrid/assetgrid/internal/monitoring"
)

const expiryLookaheadDays = licenses.DefaultExpiryWindowDays

// Overview is the aggregated dashboard payload.
type Overview struct {
	TotalAssets      int `json:"totalAssets"`
	AvailableAssets  int `json:"availableAssets"`
	AssignedAssets   int `json:"assignedAssets"`
	TotalLicenses    int `json:"totalLicenses"`
	ExpiringLicenses int `json:"expiringLicenses"`
	TotalDevices     int `json:"totalDevices"`
	OfflineDevices   int `json:"offlineDevices"`
}

// AssetSource lists assets for counting.
type AssetSource interface {
	ListAssets(ctx context.Context) ([]assets.Asset, error)
}

// LicenseSource lists licenses for counting.
type LicenseSource interface {
	ListLicenses(ctx context.Context) ([]licenses.License, error)
	Expiring(ctx context.Context, days int) ([]licenses.License, error)
}

// DeviceSource lists devices for counting.
type DeviceSource interface {
	Devices(ctx context.Context) ([]monitoring.Device, error)
	Alerts(ctx context.Context) (monitoring.Alerts, error)
}

// Service fans the overview queries out concurrently.
type Service struct {
	assets   AssetSource
	licenses LicenseSource
	devices  DeviceSource
	logger   *slog.Logger
	timeout  time.Duration
}

// NewService constructs a new Service.
func NewService(assetSrc AssetSource, licenseSrc LicenseSource, deviceSrc DeviceSource, logger *slog.Logger) *Service {
	return &Service{
		assets:   assetSrc,
		licenses: licenseSrc,
		devices:  deviceSrc,
		logger:   logger,
		timeout:  2 * time.Second,
	}
}

// Overview gathers counts from every module. The queries run concurrently;
// the first failure cancels the rest.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var overview Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := s.assets.ListAssets(ctx)
		if err != nil {
			return err
		}
		overview.TotalAssets = len(list)
		for _, a := range list {
			switch a.Status {
			case assets.StatusAvailable:
				overview.AvailableAssets++
			case assets.StatusAssigned:
				overview.AssignedAssets++
			}
		}
		return nil
	})

	g.Go(func() error {
		list, err := s.licenses.ListLicenses(ctx)
		if err != nil {
			return err
		}
		overview.TotalLicenses = len(list)
		return nil
	})

	g.Go(func() error {
		expiring, err := s.licenses.Expiring(ctx, expiryLookaheadDays)
		if err != nil {
			return err
		}
		overview.ExpiringLicenses = len(expiring)
		return nil
	})

	g.Go(func() error {
		devices, err := s.devices.Devices(ctx)
		if err != nil {
			return err
		}
		overview.TotalDevices = len(devices)
		return nil
	})

	g.Go(func() error {
		alerts, err := s.devices.Alerts(ctx)
		if err != nil {
			return err
		}
		overview.OfflineDevices = len(alerts.Offline)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return overview, nil
}
