package calculator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"customer-analytics/pkg/models"
)

// Result is the output of one analysis in a batch run.
type Result struct {
	Analysis models.Analysis
	Data     any
	Elapsed  time.Duration
}

// ParseAnalyses reads "all" or a comma separated list of analysis names.
func ParseAnalyses(s string) ([]models.Analysis, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return models.Analyses, nil
	}
	var out []models.Analysis
	seen := map[models.Analysis]bool{}
	for _, part := range strings.Split(s, ",") {
		a := models.Analysis(strings.ToLower(strings.TrimSpace(part)))
		if !isAnalysis(a) {
			return nil, fmt.Errorf("%w: unknown analysis %q", ErrInvalidParams, part)
		}
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out, nil
}

func isAnalysis(a models.Analysis) bool {
	for _, known := range models.Analyses {
		if a == known {
			return true
		}
	}
	return false
}

// Run computes every analysis of cfg concurrently. Each analysis reads its own snapshot; the first
// failure cancels the others and no partial results are returned.
func Run(ctx context.Context, e *Engine, cfg models.Config) ([]Result, error) {
	analyses := cfg.Analyses
	if len(analyses) == 0 {
		analyses = models.Analyses
	}
	// Fail fast on a bad range before any query runs.
	if _, err := e.prepare(cfg.Params, cfg.Params.HasRange()); err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if cfg.Verbose {
		bar = progressbar.Default(int64(len(analyses)), "analyses")
	} else {
		bar = progressbar.DefaultSilent(int64(len(analyses)))
	}

	results := make([]Result, len(analyses))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range analyses {
		g.Go(func() error {
			started := time.Now()
			data, err := e.compute(gctx, a, cfg.Params)
			if err != nil {
				return fmt.Errorf("compute %s: %w", a, err)
			}
			results[i] = Result{Analysis: a, Data: data, Elapsed: time.Since(started)}
			_ = bar.Add(1)
			if cfg.Verbose {
				e.log.WithFields(logrus.Fields{"analysis": a, "elapsed": results[i].Elapsed.String()}).Info("analysis done")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	_ = bar.Finish()
	return results, nil
}

func (e *Engine) compute(ctx context.Context, a models.Analysis, p models.Params) (any, error) {
	switch a {
	case models.AnalysisRevenue:
		return e.Revenue(ctx, p, RevenueAll)
	case models.AnalysisProducts:
		return e.Products(ctx, p)
	case models.AnalysisRFM:
		return e.RFM(ctx, p, true)
	case models.AnalysisCLV:
		return e.CLV(ctx, p)
	case models.AnalysisChurn:
		return e.Churn(ctx, p)
	case models.AnalysisCohorts:
		return e.Cohorts(ctx, p)
	case models.AnalysisRetention:
		return e.Retention(ctx, p)
	}
	return nil, fmt.Errorf("%w: unknown analysis %q", ErrInvalidParams, a)
}
