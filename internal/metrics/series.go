package metrics

import (
	"slices"

	"github.com/san-kum/bounce/internal/sim"
)

// DefaultWindow is the number of points kept by the energy chart.
const DefaultWindow = 250

// Series is a rolling window of energy samples for charting. Once full,
// the oldest point is dropped for every new one.
type Series struct {
	window  int
	kinetic []float64
	total   []float64
}

func NewSeries(window int) *Series {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Series{
		window:  window,
		kinetic: make([]float64, 0, window),
		total:   make([]float64, 0, window),
	}
}

func (s *Series) Push(kinetic, total float64) {
	if len(s.kinetic) >= s.window {
		s.kinetic = append(s.kinetic[:0], s.kinetic[1:]...)
		s.total = append(s.total[:0], s.total[1:]...)
	}
	s.kinetic = append(s.kinetic, kinetic)
	s.total = append(s.total, total)
}

// Observe pushes the world's current energies.
func (s *Series) Observe(w *sim.World) {
	ke := w.KineticEnergy()
	s.Push(ke, ke+w.PotentialEnergy())
}

// Kinetic and Total return copies; Push shifts the window in place.
func (s *Series) Kinetic() []float64 { return slices.Clone(s.kinetic) }
func (s *Series) Total() []float64   { return slices.Clone(s.total) }
func (s *Series) Len() int           { return len(s.kinetic) }

func (s *Series) Reset() {
	s.kinetic = s.kinetic[:0]
	s.total = s.total[:0]
}
