package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/fitassess/internal/results"
)

// scriptPlugin writes a shell script plugin into a temp dir.
func scriptPlugin(t *testing.T, name, script string, actions ...string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
			Actions:    actions,
		},
		Path:       dir,
		Executable: path,
	}
}

func TestExecutor_Execute(t *testing.T) {
	p := scriptPlugin(t, "ok", `echo '{"success":true,"data":{"file":"out.json"}}'`, ExportAction)

	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), p, &Request{Action: ExportAction})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !resp.Success || resp.Error != "" {
		t.Errorf("unexpected response %+v", resp)
	}

	var data map[string]string
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["file"] != "out.json" {
		t.Errorf("expected file out.json, got %q", data["file"])
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	p := scriptPlugin(t, "capture", `cat > request.json
echo '{"success":true}'
`, ExportAction)

	req := &Request{
		Action:  ExportAction,
		Session: &Session{ID: "s-1", UserHeightCm: 175},
		Records: []results.Record{{Exercise: "Squats", Component: "STRENGTH", Reps: 15, Score: 100}},
	}
	if _, err := NewExecutor(5*time.Second).Execute(context.Background(), p, req); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(p.Path, "request.json"))
	if err != nil {
		t.Fatalf("plugin did not run in its directory: %v", err)
	}

	var got Request
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("plugin received invalid JSON: %v", err)
	}
	if got.Action != ExportAction || got.Session == nil || got.Session.ID != "s-1" {
		t.Errorf("unexpected request %+v", got)
	}
	if len(got.Records) != 1 || got.Records[0].Reps != 15 {
		t.Errorf("unexpected records %+v", got.Records)
	}
}

func TestExecutor_Execute_ManifestConfig(t *testing.T) {
	p := scriptPlugin(t, "cfg", `cat > request.json
echo '{"success":true}'
`, ExportAction)
	p.Manifest.Config = json.RawMessage(`{"output_dir":"exports"}`)

	if _, err := NewExecutor(0).Execute(context.Background(), p, &Request{Action: ExportAction}); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	raw, _ := os.ReadFile(filepath.Join(p.Path, "request.json"))
	if !strings.Contains(string(raw), `"output_dir":"exports"`) {
		t.Errorf("manifest config not forwarded: %s", raw)
	}
}

func TestExecutor_Failures(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		timeout time.Duration
		wantErr string
	}{
		{"timeout", "sleep 10\necho '{\"success\":true}'\n", 100 * time.Millisecond, "timed out"},
		{"invalid json", "echo 'not json'\n", 5 * time.Second, "failed to parse"},
		{"non-zero exit", "echo 'Error: something failed' >&2\nexit 1\n", 5 * time.Second, "something failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scriptPlugin(t, "bad", tt.script, ExportAction)

			_, err := NewExecutor(tt.timeout).Execute(context.Background(), p, &Request{Action: ExportAction})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	p := scriptPlugin(t, "refuse", `echo '{"success":false,"error":"disk full"}'`, ExportAction)

	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), p, &Request{Action: ExportAction})
	if err != nil {
		t.Fatalf("Execute() should not fail on a plugin-reported error: %v", err)
	}
	if resp.Success || resp.Error != "disk full" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestNewExecutor(t *testing.T) {
	if got := NewExecutor(3 * time.Second).Timeout(); got != 3*time.Second {
		t.Errorf("Timeout() = %s, want 3s", got)
	}
	if got := NewExecutor(0).Timeout(); got != DefaultTimeout {
		t.Errorf("Timeout() = %s, want %s", got, DefaultTimeout)
	}
}
