package e2e

import (
	"fmt"
	"os"
	"testing"
	"time"
)

// StartSession builds the binary if needed and runs it in a PTY from dir
// with the given arguments.
func StartSession(t testing.TB, dir string, args []string, extraEnv ...string) *Session {
	t.Helper()

	binary := Binary(t)
	logFile := dir + "/transcriber.log"
	env := append([]string{
		"TRANSCRIBER_NO_ALTSCREEN=1",
		"TRANSCRIBER_LOG_FILE=" + logFile,
		"TRANSCRIBER_LOG_LEVEL=debug",
		"TERM=xterm-256color",
	}, extraEnv...)

	sess, err := startSession(binary, args, dir, env)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	t.Cleanup(func() {
		if err := sess.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: stopping session: %v\n", err)
		}
		if t.Failed() {
			if data, err := os.ReadFile(logFile); err == nil {
				t.Logf("transcriber log:\n%s", data)
			}
		}
	})
	return sess
}

// StartConnectedSession runs the transcriber against a fake engine.
func StartConnectedSession(t testing.TB, extraArgs ...string) (*Engine, *Session) {
	t.Helper()

	engine := StartEngine(t)
	dir, cfgPath := WriteConfig(t, "socket_path: "+engine.Path+"\ntick_rate: 50ms\n")
	args := append([]string{"-f", cfgPath}, extraArgs...)
	sess := StartSession(t, dir, args)

	if _, ok := engine.WaitForClient(5 * time.Second); !ok {
		t.Fatalf("transcriber never connected to %s\n%s", engine.Path, sess.CleanOutput())
	}
	return engine, sess
}
