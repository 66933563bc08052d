package licenses

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/assetgrid/assetgrid/internal/shared"
)

type fakeRepo struct {
	licenses []License
}

func (f *fakeRepo) ListLicenses(context.Context) ([]License, error) {
	return f.licenses, nil
}

func (f *fakeRepo) ExpiringBefore(_ context.Context, cutoff time.Time) ([]License, error) {
	var out []License
	for _, l := range f.licenses {
		if !l.ExpiryDate.After(cutoff) {
			out = append(out, l)
		}
	}
	return out, nil
}

func TestExpiring(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{licenses: []License{
		{ID: 1, SoftwareName: "VS Code", ExpiryDate: now.AddDate(0, 0, 10)},
		{ID: 2, SoftwareName: "AutoCAD", ExpiryDate: now.AddDate(0, 0, 45)},
		{ID: 3, SoftwareName: "Photoshop", ExpiryDate: now.AddDate(0, 0, -5)},
	}}
	svc := NewService(repo, slog.Default())
	svc.now = func() time.Time { return now }

	expiring, err := svc.Expiring(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, expiring, 2)

	expiring, err = svc.Expiring(context.Background(), 60)
	require.NoError(t, err)
	require.Len(t, expiring, 3)

	_, err = svc.Expiring(context.Background(), -1)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestExpiresWithin(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	l := License{ExpiryDate: now.AddDate(0, 0, 15)}

	require.True(t, l.ExpiresWithin(now, 30))
	require.True(t, l.ExpiresWithin(now, 15))
	require.False(t, l.ExpiresWithin(now, 14))
}
