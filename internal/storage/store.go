package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/sim"
)

const (
	metadataFile = "metadata.json"
	energyFile   = "energy.csv"
	frameFile    = "frame.json"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	logger  *log.Logger
}

func New(baseDir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{baseDir: baseDir, logger: logger}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one stored run. The caller fills the settings;
// Save fills ID, Timestamp and the result summary.
type RunMetadata struct {
	ID          string             `json:"id"`
	Scene       string             `json:"scene"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Gravity     float64            `json:"gravity"`
	Restitution float64            `json:"restitution"`
	Mode        string             `json:"mode"`
	Policy      string             `json:"policy"`
	Iterations  int                `json:"iterations"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	Bodies      int                `json:"bodies"`
	Frames      int                `json:"frames"`
	Collisions  int                `json:"collisions"`
	WallHits    int                `json:"wall_hits"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes metadata.json, energy.csv and the final frame of w under a
// new run directory and returns the run id.
func (s *Store) Save(meta RunMetadata, result *sim.Result, w *sim.World) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Scene, now.UnixNano())
	meta.Timestamp = now
	if result != nil {
		meta.Frames = result.Frames
		meta.Collisions = result.Collisions
		meta.WallHits = result.WallHits
		meta.EnergyDrift = result.EnergyDrift
		meta.Metrics = result.Metrics
	}
	if w != nil {
		meta.Bodies = len(w.Bodies)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	var samples []sim.Sample
	if result != nil {
		samples = result.Samples
	}
	if err := writeSeries(filepath.Join(runDir, energyFile), samples); err != nil {
		return "", err
	}

	if w != nil {
		frame := make([]body.Params, len(w.Bodies))
		for i, b := range w.Bodies {
			frame[i] = b.Params()
		}
		if err := writeJSON(filepath.Join(runDir, frameFile), frame); err != nil {
			return "", err
		}
	}

	s.logger.Debug("saved run", "id", meta.ID, "samples", len(samples), "dir", runDir)
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSeries(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "kinetic", "total", "collisions"}); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			strconv.FormatFloat(smp.Time, 'f', 6, 64),
			strconv.FormatFloat(smp.Kinetic, 'g', -1, 64),
			strconv.FormatFloat(smp.Total, 'g', -1, 64),
			strconv.Itoa(smp.Collisions),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first. Directories without a
// valid metadata.json are skipped.
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
			s.logger.Debug("skipping run", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := s.read(runID, metadataFile)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadFrame returns the bodies as they were at the end of the run.
func (s *Store) LoadFrame(runID string) ([]body.Params, error) {
	data, err := s.read(runID, frameFile)
	if err != nil {
		return nil, err
	}

	var frame []body.Params
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return frame, nil
}

// LoadSeries reads back the energy samples. Malformed rows are skipped.
func (s *Store) LoadSeries(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, energyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 4 {
			continue
		}
		t, err1 := strconv.ParseFloat(record[0], 64)
		ke, err2 := strconv.ParseFloat(record[1], 64)
		total, err3 := strconv.ParseFloat(record[2], 64)
		n, err4 := strconv.Atoi(record[3])
		if err := errors.Join(err1, err2, err3, err4); err != nil {
			continue
		}
		samples = append(samples, sim.Sample{Time: t, Kinetic: ke, Total: total, Collisions: n})
	}
	return samples, nil
}

func (s *Store) read(runID, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	return data, nil
}
