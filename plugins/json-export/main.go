// Package main provides an export plugin that writes saved sessions as JSON
// documents, one file per session.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayusman/fitassess/internal/plugin"
	"github.com/ayusman/fitassess/internal/results"
)

// Config is read from the request config.
type Config struct {
	OutputDir string `json:"output_dir"`
}

// document is the file written for a session.
type document struct {
	Session plugin.Session   `json:"session"`
	Results []results.Record `json:"results"`
}

func main() {
	var req plugin.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(plugin.Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	if req.Action != plugin.ExportAction {
		writeResponse(plugin.Response{Error: fmt.Sprintf("unknown action: %s", req.Action)})
		return
	}

	path, err := export(req)
	if err != nil {
		writeResponse(plugin.Response{Error: fmt.Sprintf("export failed: %v", err)})
		return
	}

	data, _ := json.Marshal(map[string]string{"file": path})
	writeResponse(plugin.Response{Success: true, Data: data})
}

// export writes req to <output_dir>/<session id>.json and returns the path.
func export(req plugin.Request) (string, error) {
	if req.Session == nil || req.Session.ID == "" {
		return "", errors.New("session id is required")
	}

	cfg := Config{OutputDir: "exports"}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return "", fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(document{Session: *req.Session, Results: req.Records}, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(cfg.OutputDir, filepath.Base(req.Session.ID)+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func writeResponse(resp plugin.Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
