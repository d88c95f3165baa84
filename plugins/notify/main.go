// Package main provides a plugin that announces a saved session with a
// desktop notification. It uses AppleScript on macOS and notify-send on Linux.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/ayusman/fitassess/internal/plugin"
)

func main() {
	var req plugin.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(plugin.Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	if req.Action != plugin.ExportAction || req.Session == nil {
		writeResponse(plugin.Response{Error: fmt.Sprintf("unsupported request: %s", req.Action)})
		return
	}

	title, body := message(req)
	if err := notify(title, body); err != nil {
		writeResponse(plugin.Response{Error: fmt.Sprintf("notification failed: %v", err)})
		return
	}

	writeResponse(plugin.Response{Success: true})
}

// message builds the notification text for a saved session.
func message(req plugin.Request) (title, body string) {
	title = fmt.Sprintf("Fitness assessment: %.1f/100", req.Session.OverallScore)

	best := ""
	bestScore := -1.0
	for _, r := range req.Records {
		if r.Score > bestScore {
			best, bestScore = r.Exercise, r.Score
		}
	}
	if best == "" {
		return title, "No exercises recorded"
	}
	return title, fmt.Sprintf("%d exercises, best: %s (%.1f)", len(req.Records), best, bestScore)
}

func notify(title, body string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, body, title)
		cmd = exec.Command("osascript", "-e", script)
	case "linux":
		cmd = exec.Command("notify-send", title, body)
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func writeResponse(resp plugin.Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
