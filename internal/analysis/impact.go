package analysis

// Impact scores map to categories by fixed tiers: 0-30 low, 31-60 medium,
// 61-100 high. Two floor adjustments keep the output plausible: a cooperation
// score of exactly zero is treated as a degenerate sample and lifted to a
// neutral midpoint, and a message scored near-zero on every negative axis has
// friction and strain lifted off the floor so the prediction does not read as
// "no effect at all".
const (
	tierLowMax       = 30
	tierMediumMax    = 60
	cooperationFloor = 45
	bumpValue        = 35
)

func categoryFor(value int) string {
	switch {
	case value <= tierLowMax:
		return CategoryLow
	case value <= tierMediumMax:
		return CategoryMedium
	default:
		return CategoryHigh
	}
}

// NormalizeImpact recomputes every metric category from its value and applies
// the floor adjustments. It mutates the result in place and is idempotent:
// running it twice yields the same result as running it once.
func NormalizeImpact(r *ImpactResult) {
	if r == nil {
		return
	}

	for i := range r.Metrics {
		m := &r.Metrics[i]
		m.Value = clampScore(m.Value)
		m.Category = categoryFor(m.Value)
	}

	if coop := r.Metric(MetricCooperation); coop != nil && coop.Value == 0 {
		coop.Value = cooperationFloor
		coop.Category = categoryFor(coop.Value)
	}

	coop := r.Metric(MetricCooperation)
	friction := r.Metric(MetricFriction)
	strain := r.Metric(MetricStrain)
	if coop != nil && friction != nil && strain != nil &&
		coop.Value <= tierLowMax && friction.Value <= tierLowMax && strain.Value <= tierLowMax {
		friction.Value = bumpValue
		friction.Category = categoryFor(friction.Value)
		strain.Value = bumpValue
		strain.Category = categoryFor(strain.Value)
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
