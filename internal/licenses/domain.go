// Package licenses tracks software licenses and their expiry.
package licenses

import "time"

// License is a purchased software license, optionally tied to an asset.
type License struct {
	ID           int64      `json:"id"`
	SoftwareName string     `json:"softwareName"`
	LicenseKey   string     `json:"licenseKey"`
	ExpiryDate   time.Time  `json:"expiryDate"`
	PurchaseDate *time.Time `json:"purchaseDate,omitempty"`
	AssetID      *int64     `json:"assetId,omitempty"`
}

// ExpiresWithin reports whether the license expires on or before the cutoff.
func (l License) ExpiresWithin(now time.Time, days int) bool {
	cutoff := now.AddDate(0, 0, days)
	return !l.ExpiryDate.After(cutoff)
}
