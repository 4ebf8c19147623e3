package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/sim"
	"github.com/san-kum/bounce/internal/storage"
)

type ExportData struct {
	Run     storage.RunMetadata `json:"run"`
	Steps   int                 `json:"steps"`
	Samples []sim.Sample        `json:"samples"`
	Frame   []body.Params       `json:"frame,omitempty"`
}

// RunJSON writes a stored run, its energy series and final frame, as
// indented JSON. An empty path writes to stdout.
func RunJSON(path string, st *storage.Store, runID string) error {
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	frame, err := st.LoadFrame(runID)
	if err != nil {
		return err
	}

	data := ExportData{Run: *meta, Steps: len(samples), Samples: samples, Frame: frame}
	if path == "" {
		return WriteJSON(os.Stdout, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
