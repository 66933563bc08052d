package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/assetgrid/assetgrid/internal/licenses"
	"github.com/assetgrid/assetgrid/internal/monitoring"
)

// LicenseSource yields licenses expiring within a lookahead window.
type LicenseSource interface {
	Expiring(ctx context.Context, days int) ([]licenses.License, error)
}

// DeviceSource yields offline and abnormal-traffic devices.
type DeviceSource interface {
	Alerts(ctx context.Context) (monitoring.Alerts, error)
}

// Scans holds the dependencies shared by the scheduled scan handlers.
type Scans struct {
	Licenses LicenseSource
	Devices  DeviceSource
	Logger   *slog.Logger
}

// Handlers returns the task registrations for the worker mux.
func (s *Scans) Handlers() []TaskHandler {
	return []TaskHandler{
		{Type: TaskLicenseExpiryScan, Handler: s.HandleLicenseExpiryScan},
		{Type: TaskDeviceDowntimeScan, Handler: s.HandleDeviceDowntimeScan},
	}
}

// HandleLicenseExpiryScan logs every license expiring inside the window so
// operators get a daily heads-up before keys lapse.
func (s *Scans) HandleLicenseExpiryScan(ctx context.Context, t *asynq.Task) error {
	var payload LicenseExpiryPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("license expiry payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	expiring, err := s.Licenses.Expiring(ctx, payload.Days)
	if err != nil {
		return fmt.Errorf("license expiry scan: %w", err)
	}
	for _, lic := range expiring {
		s.Logger.Warn("license expiring soon",
			slog.Int64("licenseId", lic.ID),
			slog.String("software", lic.SoftwareName),
			slog.Time("expiryDate", lic.ExpiryDate),
		)
	}
	s.Logger.Info("license expiry scan complete", slog.Int("expiring", len(expiring)))
	return nil
}

// HandleDeviceDowntimeScan logs offline devices and devices with abnormal
// bandwidth usage.
func (s *Scans) HandleDeviceDowntimeScan(ctx context.Context, _ *asynq.Task) error {
	alerts, err := s.Devices.Alerts(ctx)
	if err != nil {
		return fmt.Errorf("device downtime scan: %w", err)
	}
	for _, d := range alerts.Offline {
		s.Logger.Warn("device offline", slog.Int64("deviceId", d.ID), slog.String("device", d.Name))
	}
	for _, d := range alerts.AbnormalTraffic {
		s.Logger.Warn("abnormal device traffic",
			slog.Int64("deviceId", d.ID),
			slog.String("device", d.Name),
			slog.Float64("bandwidthMbps", d.BandwidthUsage),
		)
	}
	s.Logger.Info("device downtime scan complete",
		slog.Int("offline", len(alerts.Offline)),
		slog.Int("abnormal", len(alerts.AbnormalTraffic)),
	)
	return nil
}
