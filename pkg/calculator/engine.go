package calculator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"customer-analytics/pkg/models"
	"customer-analytics/pkg/timebucket"
)

// Repository supplies read-only snapshots. Customers come back paired with their order history,
// oldest first, so the engine never fetches twice for one analysis.
type Repository interface {
	FindOrders(ctx context.Context, rng models.DateRange, filter models.OrderFilter) ([]models.Order, error)
	FindOrderItems(ctx context.Context, rng models.DateRange) ([]models.OrderItem, error)
	// FindCustomers returns every customer, or those who signed up in rng when it is not nil.
	FindCustomers(ctx context.Context, rng *models.DateRange) ([]models.Customer, error)
}

// Engine validates parameters, fetches a snapshot and runs the pure analyses over it.
type Engine struct {
	repo Repository
	log  logrus.FieldLogger
	now  func() time.Time
}

// NewEngine returns an engine reading from repo. A nil logger discards engine logs.
func NewEngine(repo Repository, log logrus.FieldLogger) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Engine{repo: repo, log: log, now: time.Now}
}

func (e *Engine) prepare(p models.Params, needRange bool) (models.Params, error) {
	p = p.WithDefaults(e.now())
	if err := checkParams(p, needRange); err != nil {
		return p, err
	}
	return p, nil
}

func (e *Engine) customers(ctx context.Context, p models.Params) ([]models.Customer, error) {
	var rng *models.DateRange
	if p.HasRange() {
		r := p.Range()
		rng = &r
	}
	cs, err := e.repo.FindCustomers(ctx, rng)
	if err != nil {
		return nil, unavailable("find customers", err)
	}
	return cs, nil
}

func (e *Engine) orders(ctx context.Context, rng models.DateRange) ([]models.Order, error) {
	list, err := e.repo.FindOrders(ctx, rng, models.OrderFilter{})
	if err != nil {
		return nil, unavailable("find orders", err)
	}
	return list, nil
}

func (e *Engine) trace(analysis models.Analysis, started time.Time, fields logrus.Fields) {
	fields["analysis"] = analysis
	fields["elapsed"] = time.Since(started).String()
	e.log.WithFields(fields).Debug("analysis computed")
}

// RevenueView selects which parts of a RevenueReport are computed.
type RevenueView string

const (
	RevenueAll        RevenueView = "all"
	RevenueTimeSeries RevenueView = "timeseries"
	RevenueSegments   RevenueView = "segment"
	RevenueMetrics    RevenueView = "metrics"
)

// Revenue builds the requested revenue views over [Start, End]. Interval defaults to day.
func (e *Engine) Revenue(ctx context.Context, p models.Params, view RevenueView) (models.RevenueReport, error) {
	started := time.Now()
	p, err := e.prepare(p, true)
	if err != nil {
		return models.RevenueReport{}, err
	}
	if view == "" {
		view = RevenueAll
	}
	switch view {
	case RevenueAll, RevenueTimeSeries, RevenueSegments, RevenueMetrics:
	default:
		return models.RevenueReport{}, fmt.Errorf("%w: metric must be one of [all timeseries segment metrics], got %s", ErrInvalidParams, view)
	}
	iv := p.Interval
	if iv == "" {
		iv = timebucket.Day
	}

	orders, err := e.orders(ctx, p.Range())
	if err != nil {
		return models.RevenueReport{}, err
	}

	var rep models.RevenueReport
	if view == RevenueAll || view == RevenueTimeSeries {
		rep.TimeSeries = RevenueByTime(orders, p.Range(), iv)
	}
	if view == RevenueAll || view == RevenueSegments {
		customers, err := e.customers(ctx, models.Params{})
		if err != nil {
			return models.RevenueReport{}, err
		}
		rep.BySegment = RevenueBySegment(orders, customers, p.Range(), p.ReferenceDate)
	}
	if view == RevenueAll || view == RevenueMetrics {
		s := SummarizeRevenue(orders, p.Range())
		rep.Metrics = &s
	}
	e.trace(models.AnalysisRevenue, started, logrus.Fields{"orders": len(orders), "buckets": len(rep.TimeSeries)})
	return rep, nil
}

// Products ranks the products sold over [Start, End] by Metric.
func (e *Engine) Products(ctx context.Context, p models.Params) (models.ProductRanking, error) {
	started := time.Now()
	p, err := e.prepare(p, true)
	if err != nil {
		return models.ProductRanking{}, err
	}
	orders, err := e.orders(ctx, p.Range())
	if err != nil {
		return models.ProductRanking{}, err
	}
	items, err := e.repo.FindOrderItems(ctx, p.Range())
	if err != nil {
		return models.ProductRanking{}, unavailable("find order items", err)
	}
	ranked := RankProducts(orders, items, p.Metric)
	e.trace(models.AnalysisProducts, started, logrus.Fields{"items": len(items), "products": len(ranked)})
	return models.ProductRanking{
		Top:    TopProducts(ranked, p.Limit),
		Bottom: BottomProducts(ranked, p.Limit),
	}, nil
}

// RFM scores customers; per-customer scores are included when detailed is set.
func (e *Engine) RFM(ctx context.Context, p models.Params, detailed bool) (models.RFMReport, error) {
	started := time.Now()
	p, err := e.prepare(p, false)
	if err != nil {
		return models.RFMReport{}, err
	}
	customers, err := e.customers(ctx, p)
	if err != nil {
		return models.RFMReport{}, err
	}
	scores := ScoreRFM(customers, p.ReferenceDate)
	rep := models.RFMReport{RFMOverview: RFMOverviewOf(scores)}
	if detailed {
		rep.Scores = scores
	}
	e.trace(models.AnalysisRFM, started, logrus.Fields{"customers": len(customers), "scored": len(scores)})
	return rep, nil
}

// CLV predicts lifetime values, filtered by Segment and truncated to Limit.
func (e *Engine) CLV(ctx context.Context, p models.Params) (models.CLVReport, error) {
	started := time.Now()
	p, err := e.prepare(p, false)
	if err != nil {
		return models.CLVReport{}, err
	}
	customers, err := e.customers(ctx, p)
	if err != nil {
		return models.CLVReport{}, err
	}
	records := PredictCLV(customers, p.ReferenceDate)
	filtered := FilterCLV(records, p.Segment)
	e.trace(models.AnalysisCLV, started, logrus.Fields{"customers": len(customers), "records": len(records)})
	return models.CLVReport{
		Data:    truncate(filtered, listLimit(p.Limit)),
		Summary: SummarizeCLV(records),
		Count:   len(filtered),
	}, nil
}

// Churn predicts churn over DaysThreshold-long windows, filtered by RiskLevel and truncated to Limit.
func (e *Engine) Churn(ctx context.Context, p models.Params) (models.ChurnReport, error) {
	started := time.Now()
	p, err := e.prepare(p, false)
	if err != nil {
		return models.ChurnReport{}, err
	}
	customers, err := e.customers(ctx, p)
	if err != nil {
		return models.ChurnReport{}, err
	}
	preds := PredictChurn(customers, p.ReferenceDate, p.DaysThreshold)
	filtered := FilterChurn(preds, p.RiskLevel)
	e.trace(models.AnalysisChurn, started, logrus.Fields{"customers": len(customers), "atRisk": len(preds)})
	return models.ChurnReport{
		Predictions:   truncate(filtered, listLimit(p.Limit)),
		Summary:       SummarizeChurn(preds),
		Count:         len(filtered),
		DaysThreshold: p.DaysThreshold,
	}, nil
}

// Cohorts builds signup cohorts over [Start, End]. Interval is week or month (default).
func (e *Engine) Cohorts(ctx context.Context, p models.Params) ([]models.CohortRecord, error) {
	started := time.Now()
	p, err := e.prepare(p, true)
	if err != nil {
		return nil, err
	}
	iv := p.Interval
	switch iv {
	case "":
		iv = timebucket.Month
	case timebucket.Week, timebucket.Month:
	default:
		return nil, fmt.Errorf("%w: cohort interval must be week or month, got %s", ErrInvalidParams, iv)
	}
	customers, err := e.customers(ctx, p)
	if err != nil {
		return nil, err
	}
	out := GenerateCohorts(customers, p.Range(), iv, p.ReferenceDate)
	e.trace(models.AnalysisCohorts, started, logrus.Fields{"customers": len(customers), "cohorts": len(out)})
	return out, nil
}

// Retention tracks new and returning customers per bucket of [Start, End]. Interval defaults to month.
func (e *Engine) Retention(ctx context.Context, p models.Params) ([]models.RetentionPoint, error) {
	started := time.Now()
	p, err := e.prepare(p, true)
	if err != nil {
		return nil, err
	}
	iv := p.Interval
	if iv == "" {
		iv = timebucket.Month
	}
	orders, err := e.orders(ctx, p.Range())
	if err != nil {
		return nil, err
	}
	customers, err := e.customers(ctx, models.Params{})
	if err != nil {
		return nil, err
	}
	out := RetentionByPeriod(orders, customers, p.Range(), iv)
	e.trace(models.AnalysisRetention, started, logrus.Fields{"orders": len(orders), "buckets": len(out)})
	return out, nil
}
