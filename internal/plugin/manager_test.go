package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, root string, m Manifest) string {
	t.Helper()
	dir := filepath.Join(root, m.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return dir
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()
	pluginDir := writeManifest(t, tmpDir, Manifest{
		Name:        "json-export",
		Version:     "1.0.0",
		Description: "Writes sessions as JSON",
		Executable:  "json-export",
		Actions:     []string{ExportAction},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	p := plugins[0]
	if p.Manifest.Name != "json-export" || p.Manifest.Version != "1.0.0" {
		t.Errorf("unexpected manifest %+v", p.Manifest)
	}
	if p.Path != pluginDir {
		t.Errorf("expected path %q, got %q", pluginDir, p.Path)
	}
	if want := filepath.Join(pluginDir, "json-export"); p.Executable != want {
		t.Errorf("expected executable %q, got %q", want, p.Executable)
	}
}

func TestManager_Discover_Skips(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{Name: "good", Executable: "good", Actions: []string{ExportAction}})
	writeManifest(t, tmpDir, Manifest{Name: "no-exec"})

	bad := filepath.Join(tmpDir, "bad-json")
	os.MkdirAll(bad, 0755)
	os.WriteFile(filepath.Join(bad, manifestFile), []byte("not valid json"), 0644)

	os.MkdirAll(filepath.Join(tmpDir, "no-manifest"), 0755)
	os.WriteFile(filepath.Join(tmpDir, "stray-file"), []byte("x"), 0644)

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed unexpectedly: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 || plugins[0].Manifest.Name != "good" {
		t.Fatalf("expected only the good plugin, got %d plugins", len(plugins))
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "missing"))

	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed on non-existent dir: %v", err)
	}
	if n := len(manager.List()); n != 0 {
		t.Fatalf("expected 0 plugins, got %d", n)
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{Name: "csv-mirror", Executable: "run.sh"})

	manager := NewManager(tmpDir)
	manager.Discover()

	p, err := manager.Get("csv-mirror")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if p.Manifest.Name != "csv-mirror" {
		t.Errorf("got plugin %q", p.Manifest.Name)
	}

	if _, err := manager.Get("nope"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Get() error = %v, want ErrPluginNotFound", err)
	}
}

func TestManager_WithAction(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{Name: "zeta", Executable: "z", Actions: []string{ExportAction}})
	writeManifest(t, tmpDir, Manifest{Name: "alpha", Executable: "a", Actions: []string{"notify", ExportAction}})
	writeManifest(t, tmpDir, Manifest{Name: "mid", Executable: "m", Actions: []string{"notify"}})

	manager := NewManager(tmpDir)
	manager.Discover()

	got := manager.WithAction(ExportAction)
	if len(got) != 2 {
		t.Fatalf("expected 2 exporters, got %d", len(got))
	}
	if got[0].Manifest.Name != "alpha" || got[1].Manifest.Name != "zeta" {
		t.Errorf("exporters = %s, %s; want alpha, zeta", got[0].Manifest.Name, got[1].Manifest.Name)
	}
}

func TestManager_PluginDir(t *testing.T) {
	pluginDir := "/path/to/plugins"
	if got := NewManager(pluginDir).PluginDir(); got != pluginDir {
		t.Errorf("expected plugin dir %q, got %q", pluginDir, got)
	}
}
