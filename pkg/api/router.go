package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"customer-analytics/pkg/calculator"
	"customer-analytics/pkg/models"
	"customer-analytics/pkg/timebucket"
)

// Handler serves the analytics engine over HTTP.
type Handler struct {
	engine *calculator.Engine
	log    logrus.FieldLogger
}

// NewRouter mounts the analytics routes under /api/admin/analytics.
func NewRouter(engine *calculator.Engine, log logrus.FieldLogger) *gin.Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Handler{engine: engine, log: log}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	analytics := router.Group("/api/admin/analytics")
	{
		analytics.GET("/revenue", h.Revenue)
		analytics.GET("/products", h.Products)
		analytics.GET("/rfm", h.RFM)
		analytics.GET("/clv", h.CLV)
		analytics.GET("/churn", h.Churn)
		analytics.GET("/cohorts", h.Cohorts)
		analytics.GET("/retention", h.Retention)
	}
	return router
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(started).String(),
		}).Info("request")
	}
}

// query lists every parameter the analytics routes understand; each route reads its own subset.
type query struct {
	StartDate     string `form:"startDate"`
	EndDate       string `form:"endDate"`
	ReferenceDate string `form:"referenceDate"`
	Interval      string `form:"interval"`
	Metric        string `form:"metric"`
	View          string `form:"view"`
	Segment       string `form:"segment"`
	RiskLevel     string `form:"riskLevel"`
	Limit         int    `form:"limit"`
	DaysThreshold int    `form:"daysThreshold"`
}

// requestError is a malformed query string, reported as 400 with its own message.
type requestError string

func (e requestError) Error() string { return string(e) }

const (
	errRangeRequired requestError = "startDate and endDate are required"
	errBadDate       requestError = "invalid date format"
)

// params binds the query string. withRange makes startDate and endDate mandatory.
func params(c *gin.Context, withRange bool) (query, models.Params, error) {
	var q query
	if err := c.ShouldBindQuery(&q); err != nil {
		return q, models.Params{}, requestError(err.Error())
	}
	p := models.Params{
		Interval:      timebucket.Interval(q.Interval),
		Limit:         q.Limit,
		DaysThreshold: q.DaysThreshold,
		Segment:       q.Segment,
		RiskLevel:     q.RiskLevel,
	}
	if q.ReferenceDate != "" {
		ref, err := timebucket.ParseDate(q.ReferenceDate)
		if err != nil {
			return q, p, errBadDate
		}
		p.ReferenceDate = ref
	}
	if withRange && (q.StartDate == "" || q.EndDate == "") {
		return q, p, errRangeRequired
	}
	if q.StartDate != "" || q.EndDate != "" {
		start, err := timebucket.ParseDate(q.StartDate)
		if err != nil {
			return q, p, errBadDate
		}
		end, err := timebucket.ParseDateEnd(q.EndDate)
		if err != nil {
			return q, p, errBadDate
		}
		p.Start, p.End = start, end
	}
	return q, p, nil
}

// fail maps bad requests to 400 and anything else to 500 with a fixed message.
func (h *Handler) fail(c *gin.Context, err error, message string) {
	var reqErr requestError
	if errors.As(err, &reqErr) || errors.Is(err, calculator.ErrInvalidParams) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.log.WithError(err).WithField("path", c.FullPath()).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
