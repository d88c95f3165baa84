package detector

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ayusman/fitassess/internal/pose"
)

// writeFrame sends one encoded image: a 4 byte big-endian length then data.
func writeFrame(w io.Writer, data []byte) error {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := w.Write(length); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}

// response is one JSON line from the pose service.
type response struct {
	Landmarks []jsonLandmark `json:"landmarks"`
	Error     string         `json:"error,omitempty"`
}

type jsonLandmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// parseResponse decodes a service reply. An empty landmark list means no
// person was found.
func parseResponse(line []byte) (*pose.Landmarks, error) {
	var resp response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("pose service: %s", resp.Error)
	}
	if len(resp.Landmarks) == 0 {
		return nil, nil
	}
	if len(resp.Landmarks) != pose.NumLandmarks {
		return nil, fmt.Errorf("pose service returned %d landmarks, want %d", len(resp.Landmarks), pose.NumLandmarks)
	}

	var lm pose.Landmarks
	for i, p := range resp.Landmarks {
		lm[i] = pose.Landmark{X: p.X, Y: p.Y, Visibility: p.Visibility}
	}
	return &lm, nil
}
