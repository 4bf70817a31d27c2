package e2e

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteConfig writes contents to transcriber.yaml in a temporary directory.
func WriteConfig(t testing.TB, contents string) (dir string, configPath string) {
	t.Helper()
	dir = t.TempDir()
	configPath = filepath.Join(dir, "transcriber.yaml")
	if err := os.WriteFile(configPath, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir, configPath
}
