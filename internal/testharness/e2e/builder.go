package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var (
	buildOnce  sync.Once
	buildPath  string
	buildErr   error
	moduleRoot string
)

func init() {
	_, file, _, ok := runtime.Caller(0)
	if ok {
		moduleRoot = filepath.Join(filepath.Dir(file), "..", "..", "..")
	}
}

// Binary returns the path to a transcriber binary built once per test process.
func Binary(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "transcriber-e2e-bin-*")
		if err != nil {
			buildErr = err
			return
		}
		buildPath = filepath.Join(tmpDir, "transcriber")

		cmd := exec.Command("go", "build", "-o", buildPath, "./cmd/transcriber")
		cmd.Env = os.Environ()
		cmd.Dir = moduleRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build transcriber binary: %v", buildErr)
	}
	return buildPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string { return e.err.Error() + "\n" + e.output }
