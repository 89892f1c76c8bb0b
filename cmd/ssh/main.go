package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/balloon-darts/internal/commentary"
	"github.com/tomz197/balloon-darts/internal/config"
	"github.com/tomz197/balloon-darts/internal/draw"
	"github.com/tomz197/balloon-darts/internal/game"
	"github.com/tomz197/balloon-darts/internal/tui"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           settings.Level(),
		ReportTimestamp: true,
		Prefix:          "ssh",
	})

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config", "host", settings.SSH.Host, "port", settings.SSH.Port,
		"hostKeyPath", settings.SSH.HostKeyPath, "workingDir", workingDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	games := &gameHost{
		ctx:       ctx,
		settings:  settings,
		generator: commentary.FromSettings(settings.Commentary, logger),
		logger:    logger,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(settings.SSH.Host, settings.SSH.Port)),
		wish.WithMiddleware(
			games.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if settings.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(settings.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", s.Addr)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Ends every running game; the sessions then return from their handlers.
	cancel()
	games.wait(15 * time.Second)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameHost runs one independent game per SSH session.
type gameHost struct {
	ctx       context.Context
	settings  config.Settings
	generator commentary.Generator
	logger    *log.Logger
	wg        sync.WaitGroup
}

// middleware handles SSH sessions and runs the game client.
func (h *gameHost) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		h.wg.Add(1)
		defer h.wg.Done()

		logger := h.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("new game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		if err := h.play(sess, sizeTracker, logger); err != nil {
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

// play runs a game on sess until the player quits or the server stops.
func (h *gameHost) play(sess ssh.Session, sizes *sizeTracker, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(h.ctx)
	defer cancel()
	go func() {
		select {
		case <-sess.Context().Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	var listeners []game.Listener
	var voices tui.VoiceSource
	if h.generator != nil {
		d := commentary.NewDispatcher(h.generator, commentary.Options{
			Logger:  logger,
			Timeout: h.settings.Commentary.Timeout.Duration,
		})
		defer d.Close()
		listeners = append(listeners, d)
		voices = d
	}

	runner := game.NewRunner(game.NewSession(game.Options{TickRate: h.settings.TickRate}), game.RunnerOptions{
		TickRate:  h.settings.TickRate,
		Listeners: listeners,
	})
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = runner.Run(ctx)
	}()
	defer func() {
		cancel()
		<-runDone
	}()

	c := tui.NewClient(runner, bufio.NewReader(sess), sess, tui.Options{
		TermSizeFunc: sizes.getSize,
		Voices:       voices,
	})
	return c.Run(ctx)
}

// wait blocks until every game has ended or timeout passes.
func (h *gameHost) wait(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		h.logger.Warn("games still running at shutdown")
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
