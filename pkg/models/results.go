package models

import "time"

/*
COMPUTE → result shapes handed to the presentation layer. JSON names are part of the contract.
*/

// RevenuePoint is one bucket of a revenue time series.
type RevenuePoint struct {
	Date              string  `json:"date" yaml:"date"`
	Revenue           float64 `json:"revenue" yaml:"revenue"`
	OrderCount        int     `json:"orderCount" yaml:"orderCount"`
	AverageOrderValue float64 `json:"averageOrderValue" yaml:"averageOrderValue"`
}

// SegmentRevenue is the revenue attributed to one lifecycle segment.
type SegmentRevenue struct {
	Segment   LifecycleSegment `json:"segment" yaml:"segment"`
	Revenue   float64          `json:"revenue" yaml:"revenue"`
	Orders    int              `json:"orders" yaml:"orders"`
	Customers int              `json:"customers" yaml:"customers"`
}

// RevenueSummary totals a date range.
type RevenueSummary struct {
	TotalRevenue      float64 `json:"totalRevenue" yaml:"totalRevenue"`
	OrderCount        int     `json:"orderCount" yaml:"orderCount"`
	AverageOrderValue float64 `json:"averageOrderValue" yaml:"averageOrderValue"`
	UniqueCustomers   int     `json:"uniqueCustomers" yaml:"uniqueCustomers"`
}

// ProductPerformance aggregates the order lines of one product.
type ProductPerformance struct {
	ProductID    string  `json:"productId" yaml:"productId"`
	ProductName  string  `json:"productName" yaml:"productName"`
	Category     string  `json:"category" yaml:"category"`
	Revenue      float64 `json:"revenue" yaml:"revenue"`
	UnitsSold    int     `json:"unitsSold" yaml:"unitsSold"`
	OrderCount   int     `json:"orderCount" yaml:"orderCount"`
	AveragePrice float64 `json:"averagePrice" yaml:"averagePrice"`
}

// RFMScore holds the recency/frequency/monetary values and scores of a customer.
type RFMScore struct {
	CustomerID     string     `json:"customerId" yaml:"customerId"`
	CustomerName   string     `json:"customerName" yaml:"customerName"`
	CustomerEmail  string     `json:"customerEmail" yaml:"customerEmail"`
	Recency        int        `json:"recency" yaml:"recency"`
	Frequency      int        `json:"frequency" yaml:"frequency"`
	Monetary       float64    `json:"monetary" yaml:"monetary"`
	RecencyScore   int        `json:"recencyScore" yaml:"recencyScore"`
	FrequencyScore int        `json:"frequencyScore" yaml:"frequencyScore"`
	MonetaryScore  int        `json:"monetaryScore" yaml:"monetaryScore"`
	RFMScore       string     `json:"rfmScore" yaml:"rfmScore"`
	Segment        RFMSegment `json:"segment" yaml:"segment"`
}

// RFMSegmentSummary aggregates the scored customers of one RFM segment.
type RFMSegmentSummary struct {
	Segment      RFMSegment `json:"segment" yaml:"segment"`
	Count        int        `json:"count" yaml:"count"`
	AvgRecency   float64    `json:"avgRecency" yaml:"avgRecency"`
	AvgFrequency float64    `json:"avgFrequency" yaml:"avgFrequency"`
	AvgMonetary  float64    `json:"avgMonetary" yaml:"avgMonetary"`
	Revenue      float64    `json:"revenue" yaml:"revenue"`
}

// RFMOverview is the summary view of an RFM run.
type RFMOverview struct {
	Segments       []RFMSegmentSummary `json:"segments" yaml:"segments"`
	TotalCustomers int                 `json:"totalCustomers" yaml:"totalCustomers"`
	TotalRevenue   float64             `json:"totalRevenue" yaml:"totalRevenue"`
}

// CLVRecord is the lifetime value projection of a customer.
type CLVRecord struct {
	CustomerID     string       `json:"customerId" yaml:"customerId"`
	CustomerName   string       `json:"customerName" yaml:"customerName"`
	CurrentValue   float64      `json:"currentValue" yaml:"currentValue"`
	PredictedValue float64      `json:"predictedValue" yaml:"predictedValue"`
	ChurnRisk      int          `json:"churnRisk" yaml:"churnRisk"`
	LTV            float64      `json:"ltv" yaml:"ltv"`
	ValueSegment   ValueSegment `json:"valueSegment" yaml:"valueSegment"`
}

// CLVSummary totals a CLV run.
type CLVSummary struct {
	TotalCustomers    int     `json:"totalCustomers" yaml:"totalCustomers"`
	HighValue         int     `json:"highValue" yaml:"highValue"`
	MediumValue       int     `json:"mediumValue" yaml:"mediumValue"`
	LowValue          int     `json:"lowValue" yaml:"lowValue"`
	TotalLTV          float64 `json:"totalLTV" yaml:"totalLTV"`
	AverageLTV        float64 `json:"averageLTV" yaml:"averageLTV"`
	TotalCurrentValue float64 `json:"totalCurrentValue" yaml:"totalCurrentValue"`
}

// ChurnPrediction describes the attrition risk of a repeat customer.
type ChurnPrediction struct {
	CustomerID         string     `json:"customerId" yaml:"customerId"`
	CustomerName       string     `json:"customerName" yaml:"customerName"`
	CustomerEmail      string     `json:"customerEmail" yaml:"customerEmail"`
	ChurnProbability   float64    `json:"churnProbability" yaml:"churnProbability"`
	ChurnRisk          ChurnRisk  `json:"churnRisk" yaml:"churnRisk"`
	RiskFactors        []string   `json:"riskFactors" yaml:"riskFactors"`
	LastOrderDate      time.Time  `json:"lastOrderDate" yaml:"lastOrderDate"`
	DaysSinceLastOrder int        `json:"daysSinceLastOrder" yaml:"daysSinceLastOrder"`
	PredictedChurnDate *time.Time `json:"predictedChurnDate" yaml:"predictedChurnDate"`
}

// ChurnSummary counts predictions per risk tier.
type ChurnSummary struct {
	TotalAtRisk             int     `json:"totalAtRisk" yaml:"totalAtRisk"`
	HighRisk                int     `json:"highRisk" yaml:"highRisk"`
	MediumRisk              int     `json:"mediumRisk" yaml:"mediumRisk"`
	LowRisk                 int     `json:"lowRisk" yaml:"lowRisk"`
	AverageChurnProbability float64 `json:"averageChurnProbability" yaml:"averageChurnProbability"`
}

// CohortRecord tracks one signup cohort over its first periods.
// Period0 is the cohort size; Period1..Period3 count customers who ordered again in that period.
type CohortRecord struct {
	Cohort     string    `json:"cohort" yaml:"cohort"`
	Period0    int       `json:"period0" yaml:"period0"`
	Period1    int       `json:"period1" yaml:"period1"`
	Period2    int       `json:"period2" yaml:"period2"`
	Period3    int       `json:"period3" yaml:"period3"`
	Retention  [4]int    `json:"retention" yaml:"retention"`
	Revenue    float64   `json:"revenue" yaml:"revenue"`
	AverageLTV float64   `json:"averageLtv" yaml:"averageLtv"`
	Start      time.Time `json:"-" yaml:"-"`
}

// RetentionPoint splits the active customers of a bucket into new and returning ones.
type RetentionPoint struct {
	Period             string  `json:"period" yaml:"period"`
	NewCustomers       int     `json:"newCustomers" yaml:"newCustomers"`
	ReturningCustomers int     `json:"returningCustomers" yaml:"returningCustomers"`
	TotalCustomers     int     `json:"totalCustomers" yaml:"totalCustomers"`
	RetentionRate      float64 `json:"retentionRate" yaml:"retentionRate"`
}

/*
REPORTS → envelopes returned by the engine entry points
*/

// RevenueReport bundles the revenue views; views that were not requested stay empty.
type RevenueReport struct {
	TimeSeries []RevenuePoint   `json:"timeSeries,omitempty" yaml:"timeSeries,omitempty"`
	BySegment  []SegmentRevenue `json:"bySegment,omitempty" yaml:"bySegment,omitempty"`
	Metrics    *RevenueSummary  `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// ProductRanking holds both ends of a product ranking.
type ProductRanking struct {
	Top    []ProductPerformance `json:"top" yaml:"top"`
	Bottom []ProductPerformance `json:"bottom" yaml:"bottom"`
}

// RFMReport is the segment overview, plus per-customer scores in the detailed view.
type RFMReport struct {
	RFMOverview `yaml:",inline"`
	Scores      []RFMScore `json:"scores,omitempty" yaml:"scores,omitempty"`
}

// CLVReport is a filtered page of CLV records with totals computed over every record.
type CLVReport struct {
	Data    []CLVRecord `json:"data" yaml:"data"`
	Summary CLVSummary  `json:"summary" yaml:"summary"`
	Count   int         `json:"count" yaml:"count"`
}

// ChurnReport is a filtered page of predictions with totals computed over every prediction.
type ChurnReport struct {
	Predictions   []ChurnPrediction `json:"predictions" yaml:"predictions"`
	Summary       ChurnSummary      `json:"summary" yaml:"summary"`
	Count         int               `json:"count" yaml:"count"`
	DaysThreshold int               `json:"daysThreshold" yaml:"daysThreshold"`
}
