package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/facette/natsort"
	"github.com/google/uuid"

	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/stepopt"
	"github.com/san-kum/quadlab/internal/sweep"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile    = "metadata.json"
	convergenceFile = "convergence.csv"
)

var convergenceHeader = []string{
	"bins", "step", "value", "error", "evaluations",
	"predicted_truncation", "predicted_roundoff", "predicted_total",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a sweep was configured.
type RunInfo struct {
	Integrand        string  `json:"integrand"`
	Expr             string  `json:"expr,omitempty"`
	Epsilon          float64 `json:"machine_epsilon"`
	DerivativeSource string  `json:"derivative_source"`
}

type RunMetadata struct {
	ID            string                  `json:"id"`
	Timestamp     time.Time               `json:"timestamp"`
	Info          RunInfo                 `json:"info"`
	Rule          string                  `json:"rule"`
	Interval      quad.Interval           `json:"interval"`
	Exact         float64                 `json:"exact"`
	Reference     bool                    `json:"reference"`
	Points        int                     `json:"points"`
	Best          sweep.Point             `json:"best"`
	ObservedOrder float64                 `json:"observed_order"`
	FitPoints     int                     `json:"fit_points"`
	Predicted     *stepopt.Recommendation `json:"predicted,omitempty"`
}

func (s *Store) Save(info RunInfo, res *sweep.Result) (string, error) {
	name := info.Integrand
	if name == "" {
		name = "expr"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%s_%d_%s", name, res.Rule, now.Unix(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Timestamp:     now,
		Info:          info,
		Rule:          res.Rule,
		Interval:      res.Interval,
		Exact:         res.Exact,
		Reference:     res.Reference,
		Points:        len(res.Points),
		Best:          res.Best,
		ObservedOrder: res.ObservedOrder,
		FitPoints:     res.FitPoints,
		Predicted:     res.Predicted,
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeConvergence(filepath.Join(runDir, convergenceFile), res.Points); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}

	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeConvergence(path string, points []sweep.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(convergenceHeader); err != nil {
		f.Close()
		return err
	}
	for _, p := range points {
		if err := w.Write(pointRecord(p)); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func pointRecord(p sweep.Point) []string {
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	row := []string{
		strconv.Itoa(p.Bins),
		format(p.Step),
		format(p.Value),
		format(p.Error),
		strconv.Itoa(p.Evaluations),
	}
	if p.Predicted != nil {
		row = append(row, format(p.Predicted.Truncation), format(p.Predicted.Roundoff), format(p.Predicted.Total))
	} else {
		row = append(row, "", "", "")
	}
	return row
}

// List returns every stored run in natural ID order.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return natsort.Compare(runs[i].ID, runs[j].ID)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadPoints reads the convergence curve of a run back, ordered by bins.
func (s *Store) LoadPoints(runID string) ([]sweep.Point, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, convergenceFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(convergenceHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sweep.Point{}, nil
	}

	points := make([]sweep.Point, 0, len(records)-1)
	for i, record := range records[1:] {
		p, err := parsePoint(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", convergenceFile, i+2, err)
		}
		points = append(points, p)
	}
	return points, nil
}

func parsePoint(record []string) (sweep.Point, error) {
	var p sweep.Point
	var err error
	if p.Bins, err = strconv.Atoi(record[0]); err != nil {
		return p, err
	}
	if p.Step, err = strconv.ParseFloat(record[1], 64); err != nil {
		return p, err
	}
	if p.Value, err = strconv.ParseFloat(record[2], 64); err != nil {
		return p, err
	}
	if p.Error, err = strconv.ParseFloat(record[3], 64); err != nil {
		return p, err
	}
	if p.Evaluations, err = strconv.Atoi(record[4]); err != nil {
		return p, err
	}
	if record[5] == "" {
		return p, nil
	}

	var est quad.ErrorEstimate
	if est.Truncation, err = strconv.ParseFloat(record[5], 64); err != nil {
		return p, err
	}
	if est.Roundoff, err = strconv.ParseFloat(record[6], 64); err != nil {
		return p, err
	}
	if est.Total, err = strconv.ParseFloat(record[7], 64); err != nil {
		return p, err
	}
	p.Predicted = &est
	return p, nil
}
