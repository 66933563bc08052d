// Package monitoring exposes network device health and traffic alerts.
package monitoring

// Device status values as reported by the collector.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// DefaultTrafficThreshold is the bandwidth level (in Mbps) above which a
// device counts as abnormal traffic when no threshold is configured.
const DefaultTrafficThreshold = 1000.0

// Device is a monitored network device with its latest reading.
type Device struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	BandwidthUsage float64 `json:"bandwidthUsage"`
}

// Alerts groups the devices currently in an alert state.
type Alerts struct {
	Offline         []Device `json:"offline"`
	AbnormalTraffic []Device `json:"abnormalTraffic"`
}
