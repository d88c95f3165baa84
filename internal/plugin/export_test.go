package plugin

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/ayusman/fitassess/internal/results"
)

func writeScriptPlugin(t *testing.T, root, name, script string, actions ...string) {
	t.Helper()
	dir := writeManifest(t, root, Manifest{Name: name, Executable: "run.sh", Actions: actions})
	if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
}

func TestExport(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	root := t.TempDir()
	writeScriptPlugin(t, root, "a-good", "cat > got.json\necho '{\"success\":true}'\n", ExportAction)
	writeScriptPlugin(t, root, "b-refuses", "echo '{\"success\":false}'\n", ExportAction)
	writeScriptPlugin(t, root, "c-crashes", "exit 3\n", ExportAction)
	writeScriptPlugin(t, root, "d-other", "touch ran\necho '{\"success\":true}'\n", "notify")

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover: %v", err)
	}

	sess := Session{ID: "abc", UserHeightCm: 170, OverallScore: 55}
	recs := []results.Record{{Exercise: "Plank", Component: "ENDURANCE", Duration: 30, Score: 50}}
	got := Export(context.Background(), m, NewExecutor(5*time.Second), sess, recs)

	want := []ExportResult{
		{Plugin: "a-good", OK: true},
		{Plugin: "b-refuses", Error: "plugin reported failure"},
		{Plugin: "c-crashes"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Plugin != w.Plugin || got[i].OK != w.OK {
			t.Errorf("result %d = %+v, want %+v", i, got[i], w)
		}
		if w.Error != "" && got[i].Error != w.Error {
			t.Errorf("result %d error = %q, want %q", i, got[i].Error, w.Error)
		}
	}
	if got[2].Error == "" {
		t.Error("crashing plugin should report an error")
	}

	if _, err := os.Stat(filepath.Join(root, "a-good", "got.json")); err != nil {
		t.Errorf("exporter did not receive the request: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "d-other", "ran")); err == nil {
		t.Error("plugin without export action should not run")
	}
}

func TestExport_NoPlugins(t *testing.T) {
	m := NewManager(t.TempDir())
	m.Discover()

	if got := Export(context.Background(), m, NewExecutor(time.Second), Session{ID: "x"}, nil); len(got) != 0 {
		t.Errorf("expected no results, got %+v", got)
	}
}
