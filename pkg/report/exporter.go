package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"customer-analytics/pkg/calculator"
	"customer-analytics/pkg/models"
)

// Format is the encoding of an export.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown report format %q (json or yaml)", s)
}

// Envelope wraps one analysis result with the run it belongs to.
type Envelope struct {
	RunID       string          `json:"runId" yaml:"runId"`
	GeneratedAt time.Time       `json:"generatedAt" yaml:"generatedAt"`
	Analysis    models.Analysis `json:"analysis" yaml:"analysis"`
	Params      models.Params   `json:"params" yaml:"params"`
	ElapsedMs   int64           `json:"elapsedMs" yaml:"elapsedMs"`
	Data        any             `json:"data" yaml:"data"`
}

// Exporter writes the results of one run; every file carries the same run id.
type Exporter struct {
	Dir    string
	Format Format
	RunID  string
	now    func() time.Time
}

// NewExporter returns an exporter with a fresh run id.
func NewExporter(dir string, format Format) *Exporter {
	return &Exporter{Dir: dir, Format: format, RunID: uuid.NewString(), now: time.Now}
}

// Envelope wraps r for this run.
func (e *Exporter) Envelope(r calculator.Result, p models.Params) Envelope {
	return Envelope{
		RunID:       e.RunID,
		GeneratedAt: e.now().UTC(),
		Analysis:    r.Analysis,
		Params:      p,
		ElapsedMs:   r.Elapsed.Milliseconds(),
		Data:        r.Data,
	}
}

// Export writes one file per result and returns the paths written.
func (e *Exporter) Export(results []calculator.Result, p models.Params) ([]string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	paths := make([]string, 0, len(results))
	for _, r := range results {
		path := TimestampedFilename(e.Dir, string(r.Analysis), e.Format, e.now())
		if err := e.writeFile(path, e.Envelope(r, p)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (e *Exporter) writeFile(path string, env Envelope) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()
	if err := Encode(f, e.Format, env); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Encode writes v as indented JSON or YAML.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// TimestampedFilename returns <dir>/<name>_<YYYYMMDD_HHMMSS>.<format>.
func TimestampedFilename(dir, name string, format Format, at time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", name, at.Format("20060102_150405"), format))
}
