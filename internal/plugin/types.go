// Package plugin discovers and runs external result exporters.
package plugin

import (
	"encoding/json"
	"time"

	"github.com/ayusman/fitassess/internal/results"
)

// ExportAction is the action name sent when a session is saved.
const ExportAction = "export"

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
	Config       json.RawMessage `json:"config,omitempty"`
}

// Supports reports whether the plugin declares action.
func (m Manifest) Supports(action string) bool {
	for _, a := range m.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Session identifies the saved assessment a request is about.
type Session struct {
	ID           string    `json:"id"`
	UserHeightCm float64   `json:"user_height_cm"`
	OverallScore float64   `json:"overall_score"`
	CreatedAt    time.Time `json:"created_at"`
}

// Request is written to the plugin's stdin as a single JSON document.
type Request struct {
	Action  string           `json:"action"`
	Session *Session         `json:"session,omitempty"`
	Records []results.Record `json:"records,omitempty"`
	Config  json.RawMessage  `json:"config,omitempty"`
}

// Response is what the plugin prints on stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
