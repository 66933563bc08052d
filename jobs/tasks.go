// Package jobs runs background scans over the inventory using Asynq.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLicenseExpiryScan checks for licenses expiring soon.
	TaskLicenseExpiryScan = "licenses:expiry_scan"
	// TaskDeviceDowntimeScan checks for offline devices and abnormal traffic.
	TaskDeviceDowntimeScan = "monitoring:downtime_scan"
)

// LicenseExpiryPayload parameterises the expiry scan lookahead.
type LicenseExpiryPayload struct {
	Days int `json:"days"`
}

// NewLicenseExpiryScanTask constructs the expiry scan task.
func NewLicenseExpiryScanTask(payload LicenseExpiryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLicenseExpiryScan, data), nil
}

// NewDeviceDowntimeScanTask constructs the downtime scan task.
func NewDeviceDowntimeScanTask() *asynq.Task {
	return asynq.NewTask(TaskDeviceDowntimeScan, nil)
}
