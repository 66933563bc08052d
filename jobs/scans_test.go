package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/assetgrid/assetgrid/internal/licenses"
	"github.com/assetgrid/assetgrid/internal/monitoring"
)

type fakeLicenses struct {
	days     int
	expiring []licenses.License
	err      error
}

func (f *fakeLicenses) Expiring(_ context.Context, days int) ([]licenses.License, error) {
	f.days = days
	return f.expiring, f.err
}

type fakeDevices struct {
	alerts monitoring.Alerts
	err    error
}

func (f *fakeDevices) Alerts(context.Context) (monitoring.Alerts, error) {
	return f.alerts, f.err
}

func TestHandleLicenseExpiryScan(t *testing.T) {
	src := &fakeLicenses{expiring: []licenses.License{
		{ID: 1, SoftwareName: "Backup Suite", ExpiryDate: time.Now().AddDate(0, 0, 10)},
	}}
	scans := &Scans{Licenses: src, Devices: &fakeDevices{}, Logger: slog.Default()}

	task, err := NewLicenseExpiryScanTask(LicenseExpiryPayload{Days: 14})
	require.NoError(t, err)
	require.NoError(t, scans.HandleLicenseExpiryScan(context.Background(), task))
	require.Equal(t, 14, src.days)
}

func TestHandleLicenseExpiryScanEmptyPayload(t *testing.T) {
	src := &fakeLicenses{}
	scans := &Scans{Licenses: src, Devices: &fakeDevices{}, Logger: slog.Default()}

	task := asynq.NewTask(TaskLicenseExpiryScan, nil)
	require.NoError(t, scans.HandleLicenseExpiryScan(context.Background(), task))
	require.Zero(t, src.days)
}

func TestHandleLicenseExpiryScanBadPayload(t *testing.T) {
	scans := &Scans{Licenses: &fakeLicenses{}, Devices: &fakeDevices{}, Logger: slog.Default()}

	task := asynq.NewTask(TaskLicenseExpiryScan, []byte("not json"))
	err := scans.HandleLicenseExpiryScan(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleDeviceDowntimeScan(t *testing.T) {
	devices := &fakeDevices{alerts: monitoring.Alerts{
		Offline:         []monitoring.Device{{ID: 2, Name: "edge-router", Status: monitoring.StatusOffline}},
		AbnormalTraffic: []monitoring.Device{{ID: 3, Name: "backup-nas", BandwidthUsage: 1400}},
	}}
	scans := &Scans{Licenses: &fakeLicenses{}, Devices: devices, Logger: slog.Default()}

	require.NoError(t, scans.HandleDeviceDowntimeScan(context.Background(), NewDeviceDowntimeScanTask()))
}

func TestHandleDeviceDowntimeScanPropagatesError(t *testing.T) {
	devices := &fakeDevices{err: errors.New("connection reset")}
	scans := &Scans{Licenses: &fakeLicenses{}, Devices: devices, Logger: slog.Default()}

	err := scans.HandleDeviceDowntimeScan(context.Background(), NewDeviceDowntimeScanTask())
	require.Error(t, err)
	require.NotErrorIs(t, err, asynq.SkipRetry)
}
