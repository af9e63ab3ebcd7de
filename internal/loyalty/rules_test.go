package loyalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/retailpos-backend/pkg/enums"
)

func TestLevelForSpend(t *testing.T) {
	cases := []struct {
		name  string
		spent int64
		want  enums.MembershipLevel
	}{
		{"zero spend is bronze", 0, enums.MembershipBronze},
		{"just below silver", 199_999, enums.MembershipBronze},
		{"silver boundary inclusive", 200_000, enums.MembershipSilver},
		{"mid silver", 350_000, enums.MembershipSilver},
		{"gold boundary inclusive", 500_000, enums.MembershipGold},
		{"just below platinum", 999_999, enums.MembershipGold},
		{"platinum boundary inclusive", 1_000_000, enums.MembershipPlatinum},
		{"far above platinum", 5_000_000, enums.MembershipPlatinum},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LevelForSpend(tc.spent))
		})
	}
}

func TestPointsEarned(t *testing.T) {
	cases := []struct {
		name       string
		finalCents int64
		level      enums.MembershipLevel
		want       int64
	}{
		{"bronze earns one point per dollar", 2375, enums.MembershipBronze, 23},
		{"bronze floors fractional dollars", 199, enums.MembershipBronze, 1},
		{"silver multiplier", 10_000, enums.MembershipSilver, 120},
		{"silver floors the product", 1050, enums.MembershipSilver, 12},
		{"gold multiplier", 10_000, enums.MembershipGold, 150},
		{"platinum multiplier", 10_000, enums.MembershipPlatinum, 200},
		{"zero final earns nothing", 0, enums.MembershipPlatinum, 0},
		{"negative final earns nothing", -500, enums.MembershipGold, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PointsEarned(tc.finalCents, tc.level))
		})
	}
}

func TestLevelDiscountPercent(t *testing.T) {
	assert.EqualValues(t, 5, LevelDiscountPercent(enums.MembershipBronze))
	assert.EqualValues(t, 8, LevelDiscountPercent(enums.MembershipSilver))
	assert.EqualValues(t, 12, LevelDiscountPercent(enums.MembershipGold))
	assert.EqualValues(t, 15, LevelDiscountPercent(enums.MembershipPlatinum))
}

func TestDiscountEligibility(t *testing.T) {
	t.Run("below lowest tier", func(t *testing.T) {
		assert.Nil(t, DiscountEligibility(99))
	})

	t.Run("exact boundaries pick their tier", func(t *testing.T) {
		for _, tc := range []struct {
			points int64
			want   int64
		}{
			{100, 5},
			{250, 10},
			{500, 15},
			{1000, 20},
		} {
			tier := DiscountEligibility(tc.points)
			require.NotNil(t, tier)
			assert.Equal(t, tc.want, tier.DiscountPercent)
		}
	})

	t.Run("between tiers picks the highest met", func(t *testing.T) {
		tier := DiscountEligibility(499)
		require.NotNil(t, tier)
		assert.EqualValues(t, 10, tier.DiscountPercent)
		assert.EqualValues(t, 250, tier.PointsRequired)
	})

	t.Run("above top tier stays at top", func(t *testing.T) {
		tier := DiscountEligibility(10_000)
		require.NotNil(t, tier)
		assert.EqualValues(t, 20, tier.DiscountPercent)
	})
}

func TestPointsToNextTier(t *testing.T) {
	assert.EqualValues(t, 100, PointsToNextTier(0))
	assert.EqualValues(t, 1, PointsToNextTier(99))
	assert.EqualValues(t, 150, PointsToNextTier(100))
	assert.EqualValues(t, 500, PointsToNextTier(500))
	assert.EqualValues(t, 0, PointsToNextTier(1000))
	assert.EqualValues(t, 0, PointsToNextTier(50_000))
}

func TestDiscountFromPoints(t *testing.T) {
	assert.EqualValues(t, 0, DiscountFromPoints(0, 500))
	assert.EqualValues(t, 0, DiscountFromPoints(-10, 500))
	assert.EqualValues(t, 0, DiscountFromPoints(100, 0))
	assert.EqualValues(t, 100, DiscountFromPoints(100, 500))
	assert.EqualValues(t, 500, DiscountFromPoints(800, 500))
}
