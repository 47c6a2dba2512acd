package models

import (
	"time"

	"customer-analytics/pkg/timebucket"
)

/*
CONFIG → parameters accepted by every analysis entry point
*/

// Params carries the knobs of an analysis run. Zero values pick the defaults below.
// ReferenceDate defaults to now; Start and End are inclusive; DaysThreshold sizes the churn windows;
// Segment and RiskLevel filter CLV and churn listings.
type Params struct {
	ReferenceDate time.Time           `json:"referenceDate" yaml:"referenceDate"`
	Start         time.Time           `json:"start" yaml:"start"`
	End           time.Time           `json:"end" yaml:"end" validate:"omitempty,gtefield=Start"`
	Interval      timebucket.Interval `json:"interval" yaml:"interval" validate:"omitempty,oneof=day week month year"`
	DaysThreshold int                 `json:"daysThreshold" yaml:"daysThreshold" validate:"omitempty,min=7,max=365"`
	Limit         int                 `json:"limit" yaml:"limit" validate:"omitempty,min=1"`
	Metric        RankMetric          `json:"metric" yaml:"metric" validate:"omitempty,oneof=revenue units"`
	Segment       string              `json:"segment" yaml:"segment" validate:"omitempty,oneof=all low medium high"`
	RiskLevel     string              `json:"riskLevel" yaml:"riskLevel" validate:"omitempty,oneof=all low medium high"`
}

const (
	DefaultDaysThreshold = 90
	DefaultProductLimit  = 10
	MaxProductLimit      = 100
	DefaultListLimit     = 100
	MaxListLimit         = 500
)

// HasRange reports whether a date range was supplied.
func (p Params) HasRange() bool {
	return !p.Start.IsZero() || !p.End.IsZero()
}

// Range returns the inclusive date range of the run.
func (p Params) Range() DateRange {
	return DateRange{Start: p.Start, End: p.End}
}

// WithDefaults resolves zero values against now.
func (p Params) WithDefaults(now time.Time) Params {
	if p.ReferenceDate.IsZero() {
		p.ReferenceDate = now
	}
	p.ReferenceDate = p.ReferenceDate.UTC()
	if p.DaysThreshold == 0 {
		p.DaysThreshold = DefaultDaysThreshold
	}
	if p.Metric == "" {
		p.Metric = RankByRevenue
	}
	if p.Segment == "" {
		p.Segment = "all"
	}
	if p.RiskLevel == "" {
		p.RiskLevel = "all"
	}
	return p
}

// Analysis names one engine entry point for batch runs.
type Analysis string

const (
	AnalysisRevenue   Analysis = "revenue"
	AnalysisProducts  Analysis = "products"
	AnalysisRFM       Analysis = "rfm"
	AnalysisCLV       Analysis = "clv"
	AnalysisChurn     Analysis = "churn"
	AnalysisCohorts   Analysis = "cohorts"
	AnalysisRetention Analysis = "retention"
)

// Analyses lists every analysis in report order.
var Analyses = []Analysis{
	AnalysisRevenue, AnalysisProducts, AnalysisRFM, AnalysisCLV,
	AnalysisChurn, AnalysisCohorts, AnalysisRetention,
}

// Config contains the parameters passed to a batch run.
type Config struct {
	Analyses []Analysis // every analysis when empty
	Params   Params
	Verbose  bool // progress bar and per-analysis logs
}
