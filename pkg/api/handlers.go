package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"customer-analytics/pkg/calculator"
	"customer-analytics/pkg/models"
)

// Revenue serves the time series, segment split and headline metrics; metric picks one view.
func (h *Handler) Revenue(c *gin.Context) {
	q, p, err := params(c, true)
	if err != nil {
		h.fail(c, err, "Failed to fetch revenue analytics")
		return
	}
	rep, err := h.engine.Revenue(c.Request.Context(), p, calculator.RevenueView(q.Metric))
	if err != nil {
		h.fail(c, err, "Failed to fetch revenue analytics")
		return
	}
	c.JSON(http.StatusOK, rep)
}

// Products serves the best and worst sellers by revenue or units.
func (h *Handler) Products(c *gin.Context) {
	q, p, err := params(c, true)
	if err != nil {
		h.fail(c, err, "Failed to fetch product analytics")
		return
	}
	p.Metric = models.RankMetric(q.Metric)
	ranking, err := h.engine.Products(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err, "Failed to fetch product analytics")
		return
	}
	c.JSON(http.StatusOK, ranking)
}

// RFM serves the segment summary, or every customer score with view=detailed.
func (h *Handler) RFM(c *gin.Context) {
	q, p, err := params(c, false)
	if err != nil {
		h.fail(c, err, "Failed to generate RFM analysis")
		return
	}
	detailed := q.View == "detailed"
	rep, err := h.engine.RFM(c.Request.Context(), p, detailed)
	if err != nil {
		h.fail(c, err, "Failed to generate RFM analysis")
		return
	}
	now := time.Now().UTC()
	if detailed {
		c.JSON(http.StatusOK, gin.H{"scores": rep.Scores, "count": len(rep.Scores), "timestamp": now})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"segments":       rep.Segments,
		"totalCustomers": rep.TotalCustomers,
		"totalRevenue":   rep.TotalRevenue,
		"timestamp":      now,
	})
}

// CLV serves lifetime value projections, highest first.
func (h *Handler) CLV(c *gin.Context) {
	_, p, err := params(c, false)
	if err != nil {
		h.fail(c, err, "Failed to calculate CLV")
		return
	}
	rep, err := h.engine.CLV(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err, "Failed to calculate CLV")
		return
	}
	c.JSON(http.StatusOK, struct {
		models.CLVReport
		Timestamp time.Time `json:"timestamp"`
	}{rep, time.Now().UTC()})
}

// Churn serves the customers at risk, most likely to churn first.
func (h *Handler) Churn(c *gin.Context) {
	_, p, err := params(c, false)
	if err != nil {
		h.fail(c, err, "Failed to predict churn")
		return
	}
	rep, err := h.engine.Churn(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err, "Failed to predict churn")
		return
	}
	c.JSON(http.StatusOK, struct {
		models.ChurnReport
		Timestamp time.Time `json:"timestamp"`
	}{rep, time.Now().UTC()})
}

// Cohorts serves signup cohorts with their retention over the next three periods.
func (h *Handler) Cohorts(c *gin.Context) {
	_, p, err := params(c, true)
	if err != nil {
		h.fail(c, err, "Failed to fetch cohort analytics")
		return
	}
	cohorts, err := h.engine.Cohorts(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err, "Failed to fetch cohort analytics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cohorts": cohorts})
}

// Retention serves new and returning customer counts per bucket.
func (h *Handler) Retention(c *gin.Context) {
	_, p, err := params(c, true)
	if err != nil {
		h.fail(c, err, "Failed to fetch retention analytics")
		return
	}
	metrics, err := h.engine.Retention(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err, "Failed to fetch retention analytics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}
