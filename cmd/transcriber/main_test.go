package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nick/transcriber/internal/app"
	"github.com/nick/transcriber/internal/config"
	"github.com/nick/transcriber/internal/event"
	"github.com/nick/transcriber/internal/logging"
	"github.com/nick/transcriber/internal/transport"
)

func tempSocket(t *testing.T, name string) string {
	t.Helper()
	dir, err := os.MkdirTemp("/tmp", "transcriber-cmd-")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, name)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitConfig, exitCode(&configError{err: errors.New("bad tick rate")}))
	assert.Equal(t, exitConfig, exitCode(errors.Wrap(&configError{err: errors.New("x")}, "load")))
	assert.Equal(t, exitRuntime, exitCode(&event.EventError{Err: errors.New("no tty")}))
	assert.Equal(t, exitRuntime, exitCode(engineUnreachable{&transport.ConnectError{Path: "p", Err: errors.New("refused")}}))
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transcriber.yaml"), []byte("socket_path: /from/file.sock\ntick_rate: 1s\n"), 0o644))

	flags := &rootFlags{}
	cmd := buildRootCmd(flags)
	require.NoError(t, cmd.ParseFlags([]string{"--socket", "/from/flag.sock", "--offline"}))

	cfg, err := loadConfig(flags, cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.sock", cfg.SocketPath)
	assert.Equal(t, time.Second, cfg.TickRate)
	assert.Equal(t, config.ModeOffline, cfg.Mode)
}

func TestInvalidFlagIsConfigError(t *testing.T) {
	t.Chdir(t.TempDir())

	flags := &rootFlags{}
	cmd := buildRootCmd(flags)
	require.NoError(t, cmd.ParseFlags([]string{"--tick-rate=-1s"}))

	_, err := loadConfig(flags, cmd.Flags())
	require.Error(t, err)
	assert.Equal(t, exitConfig, exitCode(err))
}

func TestMissingConfigFileIsConfigError(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"-f", filepath.Join(t.TempDir(), "absent.yaml")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, exitConfig, exitCode(err))
}

func TestConnectPrimaryModeFailsFast(t *testing.T) {
	cfg := config.Default()
	cfg.SocketPath = tempSocket(t, "absent.sock")

	_, err := connect(context.Background(), cfg, logging.Nop())
	var ce *transport.ConnectError
	require.True(t, errors.As(err, &ce))
	assert.True(t, ce.Missing())

	msg := engineUnreachable{ce}.Error()
	assert.Contains(t, msg, "cannot connect to engine at "+cfg.SocketPath)
}

func TestConnectOfflineModeDegrades(t *testing.T) {
	cfg := config.Default()
	cfg.SocketPath = tempSocket(t, "absent.sock")
	cfg.Mode = config.ModeOffline

	link, err := connect(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	d, ok := link.(app.Disconnected)
	require.True(t, ok)
	assert.Contains(t, d.Reason, "absent.sock")
}

func TestConnectReachesEngine(t *testing.T) {
	cfg := config.Default()
	cfg.SocketPath = tempSocket(t, "engine.sock")
	l, err := transport.Listen(cfg.SocketPath)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	link, err := connect(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	c, ok := link.(app.Connected)
	require.True(t, ok)
	assert.Equal(t, cfg.SocketPath, c.Path)
	require.NoError(t, c.Conn.Close())
}
