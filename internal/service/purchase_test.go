package service

import (
	"context"
	"testing"

	"github.com/fuelnet/loyalty/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPurchaseService(t *testing.T, store repository.Store) (*PurchaseService, *LoyaltyService) {
	t.Helper()
	loyaltySvc := newTestLoyaltyService(t, store)
	return NewPurchaseService(store, loyaltySvc, 0.5), loyaltySvc
}

func TestPurchaseTotalCents(t *testing.T) {
	assert.Equal(t, int64(7560), PurchaseTotalCents(40, 189))
	assert.Equal(t, int64(1985), PurchaseTotalCents(10.5, 189))
	assert.Equal(t, int64(2), PurchaseTotalCents(0.01, 150))
}

func TestRoundVolume(t *testing.T) {
	assert.Equal(t, 10.13, RoundVolume(10.126))
	assert.Equal(t, 10.12, RoundVolume(10.124))
	assert.Equal(t, 40.0, RoundVolume(40))
	assert.Equal(t, 0.0, RoundVolume(0.004))
}

func TestPurchaseService_RecordPurchase(t *testing.T) {
	ctx := context.Background()
	base := PurchaseRequest{UserID: 1, StationID: 4, FuelTypeID: 2, VolumeLiters: 40, PricePerLiterCents: 2500}

	t.Run("accrues on the full total", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedCard(t, store, 1, 0, 1)
		svc, loyaltySvc := newTestPurchaseService(t, store)

		purchase, err := svc.RecordPurchase(ctx, base)
		require.NoError(t, err)

		assert.Equal(t, int64(100_000), purchase.TotalCents)
		assert.Equal(t, int64(100), purchase.PointsEarned)

		info, err := loyaltySvc.GetCardInfo(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), info.Card.Points)
	})

	t.Run("redeems then accrues on the remainder", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedCard(t, store, 1, 300, 1)
		svc, loyaltySvc := newTestPurchaseService(t, store)

		req := base
		req.PointsUsed = 200
		purchase, err := svc.RecordPurchase(ctx, req)
		require.NoError(t, err)

		// 100000 - 200*100 = 80000 cents earns 80 points
		assert.Equal(t, int64(80), purchase.PointsEarned)
		assert.Equal(t, int64(200), purchase.PointsUsed)

		info, err := loyaltySvc.GetCardInfo(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(180), info.Card.Points)
	})

	t.Run("total uses the stored volume precision", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedCard(t, store, 1, 0, 1)
		svc, _ := newTestPurchaseService(t, store)

		req := base
		req.VolumeLiters = 10.126
		req.PricePerLiterCents = 1000
		purchase, err := svc.RecordPurchase(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, 10.13, purchase.VolumeLiters)
		assert.Equal(t, int64(10130), purchase.TotalCents)

		listed, err := svc.ListPurchases(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, purchase.TotalCents, PurchaseTotalCents(listed[0].VolumeLiters, listed[0].PricePerLiterCents))
	})

	t.Run("volume below the stored precision is rejected", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedCard(t, store, 1, 0, 1)
		svc, _ := newTestPurchaseService(t, store)

		req := base
		req.VolumeLiters = 0.004
		_, err := svc.RecordPurchase(ctx, req)
		requireCode(t, err, ErrCodeInvalidPurchase)
	})

	t.Run("points may cover at most half the total", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedCard(t, store, 1, 1000, 2)
		svc, _ := newTestPurchaseService(t, store)

		req := base
		req.PointsUsed = 501
		_, err := svc.RecordPurchase(ctx, req)
		requireCode(t, err, ErrCodeInvalidPoints)
	})

	t.Run("premium fuel bonus applies", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedCard(t, store, 1, 0, 1)
		svc, _ := newTestPurchaseService(t, store)

		req := base
		req.FuelTypeID = 3
		purchase, err := svc.RecordPurchase(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, int64(110), purchase.PointsEarned)
	})

	t.Run("user without card still records the purchase", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc, _ := newTestPurchaseService(t, store)

		purchase, err := svc.RecordPurchase(ctx, base)
		require.NoError(t, err)
		assert.Equal(t, int64(0), purchase.PointsEarned)

		listed, err := svc.ListPurchases(ctx, 1, 0)
		require.NoError(t, err)
		assert.Len(t, listed, 1)
	})

	t.Run("user without card cannot redeem", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc, _ := newTestPurchaseService(t, store)

		req := base
		req.PointsUsed = 10
		_, err := svc.RecordPurchase(ctx, req)
		requireCode(t, err, ErrCodeCardNotFound)

		listed, err := svc.ListPurchases(ctx, 1, 0)
		require.NoError(t, err)
		assert.Empty(t, listed, "failed purchase must not be stored")
	})

	t.Run("insufficient points rolls back", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedCard(t, store, 1, 50, 1)
		svc, loyaltySvc := newTestPurchaseService(t, store)

		req := base
		req.PointsUsed = 60
		_, err := svc.RecordPurchase(ctx, req)
		requireCode(t, err, ErrCodeInsufficientPoints)

		info, err := loyaltySvc.GetCardInfo(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(50), info.Card.Points)
	})

	t.Run("invalid requests", func(t *testing.T) {
		svc, _ := newTestPurchaseService(t, repository.NewMemoryStore())

		tests := []struct {
			mutate func(r *PurchaseRequest)
			name   string
			code   string
		}{
			{name: "no user", mutate: func(r *PurchaseRequest) { r.UserID = 0 }, code: ErrCodeInvalidUser},
			{name: "no volume", mutate: func(r *PurchaseRequest) { r.VolumeLiters = 0 }, code: ErrCodeInvalidPurchase},
			{name: "negative points", mutate: func(r *PurchaseRequest) { r.PointsUsed = -1 }, code: ErrCodeInvalidPoints},
			{name: "absurd total", mutate: func(r *PurchaseRequest) { r.PricePerLiterCents = 1 << 40 }, code: ErrCodeInvalidPurchase},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := base
				tt.mutate(&req)
				_, err := svc.RecordPurchase(ctx, req)
				requireCode(t, err, tt.code)
			})
		}
	})
}

func TestPurchaseService_ListPurchases(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	seedCard(t, store, 1, 0, 1)
	svc, _ := newTestPurchaseService(t, store)

	for i := 0; i < 3; i++ {
		_, err := svc.RecordPurchase(ctx, PurchaseRequest{
			UserID: 1, StationID: 1, FuelTypeID: 1, VolumeLiters: float64(10 + i), PricePerLiterCents: 200,
		})
		require.NoError(t, err)
	}

	listed, err := svc.ListPurchases(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	_, err = svc.ListPurchases(ctx, -1, 2)
	requireCode(t, err, ErrCodeInvalidUser)
}
