package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestPlugin_Keyboard_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	if runtime.GOOS != "darwin" {
		t.Skip("keyboard plugin only works on macOS")
	}

	pluginDir := findPluginDir("keyboard")
	if pluginDir == "" {
		t.Skip("keyboard plugin not built")
	}

	mgr := NewManager(filepath.Dir(pluginDir))
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	plug, err := mgr.Get("keyboard")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := os.Stat(plug.Executable); err != nil {
		t.Skip("keyboard plugin binary not built")
	}

	// An empty key fails before any keystroke is sent.
	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), plug, &Request{
		Action: "key",
		Params: json.RawMessage(`{"key": ""}`),
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if resp.Success {
		t.Error("expected failure for empty key")
	}
}

func findPluginDir(name string) string {
	candidates := []string{
		filepath.Join("../../plugins", name),
		filepath.Join("../../../plugins", name),
	}

	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, ManifestFile)); err == nil {
			return dir
		}
	}
	return ""
}
