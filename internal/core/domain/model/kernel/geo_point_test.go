package kernel_test

import (
	"math"
	"testing"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("should accept coordinates on the boundaries", func(t *testing.T) {
		for _, c := range [][2]float64{{-90, -180}, {90, 180}, {0, 0}, {23.8103, 90.4125}} {
			p, err := kernel.NewGeoPoint(c[0], c[1])

			require.NoError(t, err)
			require.NoError(t, p.Validate())
			assert.InDelta(t, c[0], p.Lat(), 1e-9)
			assert.InDelta(t, c[1], p.Lng(), 1e-9)
		}
	})

	t.Run("should report both coordinates when both are out of range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, -181)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "latitude")
		assert.Contains(t, err.Error(), "longitude")
	})

	t.Run("should reject NaN", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(math.NaN(), 10)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	dhaka, _ := kernel.NewGeoPoint(23.8103, 90.4125)
	chattogram, _ := kernel.NewGeoPoint(22.3569, 91.7832)

	t.Run("should be zero to itself", func(t *testing.T) {
		d, err := dhaka.DistanceKm(dhaka)

		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-9)
	})

	t.Run("should be symmetric and close to the known distance", func(t *testing.T) {
		there, err := dhaka.DistanceKm(chattogram)
		require.NoError(t, err)
		back, err := chattogram.DistanceKm(dhaka)
		require.NoError(t, err)

		assert.InDelta(t, there, back, 1e-9)
		assert.InDelta(t, 214, there, 5)
	})

	t.Run("should fail for an unconstructed point", func(t *testing.T) {
		var zero kernel.GeoPoint

		_, err := dhaka.DistanceKm(zero)

		require.ErrorIs(t, err, kernel.ErrGeoPointIsNotConstructed)
	})
}
