package models

// LifecycleSegment classifies a customer from lifetime spend, order count and signup age.
type LifecycleSegment string

const (
	LifecycleVIP     LifecycleSegment = "VIP"
	LifecycleLoyal   LifecycleSegment = "LOYAL"
	LifecycleNew     LifecycleSegment = "NEW"
	LifecycleRegular LifecycleSegment = "REGULAR"
)

// LifecycleSegments lists the lifecycle segments in reporting order.
var LifecycleSegments = []LifecycleSegment{LifecycleVIP, LifecycleLoyal, LifecycleNew, LifecycleRegular}

// RFMSegment is the label assigned from an (r, f, m) score triple.
type RFMSegment string

const (
	RFMChampions          RFMSegment = "Champions"
	RFMLoyalCustomers     RFMSegment = "Loyal Customers"
	RFMPotentialLoyalists RFMSegment = "Potential Loyalists"
	RFMNewCustomers       RFMSegment = "New Customers"
	RFMPromising          RFMSegment = "Promising"
	RFMNeedAttention      RFMSegment = "Need Attention"
	RFMAtRisk             RFMSegment = "At Risk"
	RFMCannotLoseThem     RFMSegment = "Cannot Lose Them"
	RFMAboutToSleep       RFMSegment = "About to Sleep"
	RFMLostCustomers      RFMSegment = "Lost Customers"
)

// ValueSegment buckets customers by predicted lifetime value.
type ValueSegment string

const (
	ValueLow    ValueSegment = "low"
	ValueMedium ValueSegment = "medium"
	ValueHigh   ValueSegment = "high"
)

// ParseValueSegment accepts "low", "medium" or "high".
func ParseValueSegment(s string) (ValueSegment, bool) {
	switch v := ValueSegment(s); v {
	case ValueLow, ValueMedium, ValueHigh:
		return v, true
	}
	return "", false
}

// ChurnRisk is the risk tier derived from a churn probability.
type ChurnRisk string

const (
	ChurnLow    ChurnRisk = "low"
	ChurnMedium ChurnRisk = "medium"
	ChurnHigh   ChurnRisk = "high"
)

// ParseChurnRisk accepts "low", "medium" or "high".
func ParseChurnRisk(s string) (ChurnRisk, bool) {
	switch v := ChurnRisk(s); v {
	case ChurnLow, ChurnMedium, ChurnHigh:
		return v, true
	}
	return "", false
}

// RankMetric selects the ordering key for product rankings.
type RankMetric string

const (
	RankByRevenue RankMetric = "revenue"
	RankByUnits   RankMetric = "units"
)
