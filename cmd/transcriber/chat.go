package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nick/transcriber/internal/logging"
	"github.com/nick/transcriber/internal/transport"
)

const defaultChatSocket = "/tmp/chat.sock"

var (
	errStdinClosed = errors.New("stdin closed")
	errPeerGone    = errors.New("peer disconnected")
)

func newChatCmd(flags *rootFlags) *cobra.Command {
	var socket string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Line chat over a unix socket; listens when no peer is there",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, closer, err := logging.New(flags.logFile, "chat", "info")
			if err != nil {
				return &configError{err: errors.Wrap(err, "open log file")}
			}
			defer closer.Close()
			return runChat(cmd.Context(), socket, cmd.InOrStdin(), cmd.OutOrStdout(), log)
		},
	}
	cmd.Flags().StringVar(&socket, "socket", defaultChatSocket, "chat socket path")
	return cmd
}

// syncWriter serialises prints from the relay goroutines.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Println(a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, a...)
}

func runChat(ctx context.Context, path string, in io.Reader, out io.Writer, log *logging.Logger) error {
	w := &syncWriter{w: out}
	lines := readLines(in)

	client, err := transport.Connect(ctx, path)
	if err == nil {
		w.Println("Connected to existing chat!")
		err := chat(ctx, client, lines, w)
		if errors.Is(err, errStdinClosed) || errors.Is(err, errPeerGone) {
			return nil
		}
		return err
	}
	var ce *transport.ConnectError
	if !errors.As(err, &ce) {
		return err
	}
	log.Info().Str("socket", path).Msg("no peer, becoming listener")

	l, err := transport.Listen(path)
	if err != nil {
		return err
	}
	defer l.Close()
	l.Warn = func(msg string) { log.Warn().Msg(msg) }

	w.Println("Listening for connections...")
	for {
		peer, err := l.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		w.Println("Peer connected!")
		err = chat(ctx, peer, lines, w)
		switch {
		case errors.Is(err, errStdinClosed):
			return nil
		case err != nil && !errors.Is(err, errPeerGone):
			log.Error().Err(err).Msg("chat")
		}
		w.Println("Ready for new connection...")
	}
}

// chat relays stdin lines to the peer and prints what the peer sends. It
// returns errPeerGone when the peer hangs up and errStdinClosed at the end
// of input.
func chat(ctx context.Context, c *transport.Client, lines <-chan string, w *syncWriter) error {
	defer c.Close()
	w.Println("Chat started! Type messages and press Enter to send.")

	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, func() { _ = c.Close() })
	defer stop()

	g.Go(func() error {
		for {
			line, err := c.Receive()
			if err != nil {
				if errors.Is(err, transport.ErrClosed) {
					return nil
				}
				return err
			}
			if line == "" {
				w.Println("Peer disconnected")
				return errPeerGone
			}
			w.Println("Received: " + strings.TrimRight(line, "\r\n"))
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return errStdinClosed
				}
				if err := c.Send(line + "\n"); err != nil {
					return err
				}
			}
		}
	})

	err := g.Wait()
	if err == nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// readLines scans in once for the whole session so input typed between
// peers is not lost.
func readLines(in io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			out <- sc.Text()
		}
	}()
	return out
}
