// Package loyalty holds the pure membership and point rules shared by the
// sales engine and the customer endpoints. Everything here is deterministic:
// no storage, no clock, amounts in cents, points as int64.
package loyalty

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retailpos-backend/pkg/enums"
)

// Spend thresholds (cents) for each membership level, inclusive lower bounds.
const (
	SilverThresholdCents   int64 = 200_000
	GoldThresholdCents     int64 = 500_000
	PlatinumThresholdCents int64 = 1_000_000
)

// DiscountTier is one rung of the point-based discount ladder.
type DiscountTier struct {
	PointsRequired  int64 `json:"points_required"`
	DiscountPercent int64 `json:"discount_percent"`
}

// discountTiers is ordered ascending; eligibility picks the highest rung met.
var discountTiers = []DiscountTier{
	{PointsRequired: 100, DiscountPercent: 5},
	{PointsRequired: 250, DiscountPercent: 10},
	{PointsRequired: 500, DiscountPercent: 15},
	{PointsRequired: 1000, DiscountPercent: 20},
}

// LevelForSpend maps lifetime spend to a membership level.
func LevelForSpend(totalSpentCents int64) enums.MembershipLevel {
	switch {
	case totalSpentCents >= PlatinumThresholdCents:
		return enums.MembershipPlatinum
	case totalSpentCents >= GoldThresholdCents:
		return enums.MembershipGold
	case totalSpentCents >= SilverThresholdCents:
		return enums.MembershipSilver
	default:
		return enums.MembershipBronze
	}
}

// EarnMultiplier returns points earned per dollar spent at the given level.
func EarnMultiplier(level enums.MembershipLevel) decimal.Decimal {
	switch level {
	case enums.MembershipPlatinum:
		return decimal.NewFromFloat(2.0)
	case enums.MembershipGold:
		return decimal.NewFromFloat(1.5)
	case enums.MembershipSilver:
		return decimal.NewFromFloat(1.2)
	default:
		return decimal.NewFromInt(1)
	}
}

// PointsEarned computes floor(final dollars × multiplier) for the level the
// customer held before the sale was applied.
func PointsEarned(finalCents int64, level enums.MembershipLevel) int64 {
	if finalCents <= 0 {
		return 0
	}
	return decimal.NewFromInt(finalCents).
		Mul(EarnMultiplier(level)).
		Div(decimal.NewFromInt(100)).
		Floor().
		IntPart()
}

// LevelDiscountPercent is the advisory membership discount surfaced on
// customer DTOs. It is never applied automatically.
func LevelDiscountPercent(level enums.MembershipLevel) int64 {
	switch level {
	case enums.MembershipPlatinum:
		return 15
	case enums.MembershipGold:
		return 12
	case enums.MembershipSilver:
		return 8
	default:
		return 5
	}
}

// DiscountEligibility returns the highest point-discount tier the balance
// qualifies for, or nil below the lowest rung.
func DiscountEligibility(points int64) *DiscountTier {
	var eligible *DiscountTier
	for i := range discountTiers {
		if points >= discountTiers[i].PointsRequired {
			tier := discountTiers[i]
			eligible = &tier
		}
	}
	return eligible
}

// PointsToNextTier returns how many points remain until the next discount
// rung, or 0 when the balance already clears the top tier.
func PointsToNextTier(points int64) int64 {
	for _, tier := range discountTiers {
		if points < tier.PointsRequired {
			return tier.PointsRequired - points
		}
	}
	return 0
}

// DiscountFromPoints converts a redemption request into a cent discount,
// capped at the available balance. One point is worth one cent.
func DiscountFromPoints(toRedeem, available int64) int64 {
	if toRedeem <= 0 || available <= 0 {
		return 0
	}
	if toRedeem > available {
		return available
	}
	return toRedeem
}
