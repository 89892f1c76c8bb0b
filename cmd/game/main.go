package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/balloon-darts/internal/audio"
	"github.com/tomz197/balloon-darts/internal/commentary"
	"github.com/tomz197/balloon-darts/internal/config"
	"github.com/tomz197/balloon-darts/internal/game"
	"github.com/tomz197/balloon-darts/internal/tui"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the game; redirect stderr to keep the log.
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           settings.Level(),
		ReportTimestamp: true,
	})

	if err := run(settings, logger); err != nil {
		logger.Error("game error", "err", err)
		os.Exit(1)
	}
}

func run(settings config.Settings, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sound := audio.NewSoundManager()
	if err := sound.Initialize(); err != nil {
		logger.Warn("audio disabled", "err", err)
	}
	defer sound.Cleanup()

	listeners := []game.Listener{sound}
	var voices tui.VoiceSource
	if gen := commentary.FromSettings(settings.Commentary, logger); gen != nil {
		d := commentary.NewDispatcher(gen, commentary.Options{
			Logger:  logger,
			Timeout: settings.Commentary.Timeout.Duration,
		})
		defer d.Close()
		listeners = append(listeners, d)
		voices = d
	}

	session := game.NewSession(game.Options{TickRate: settings.TickRate})
	runner := game.NewRunner(session, game.RunnerOptions{
		TickRate:  settings.TickRate,
		Listeners: listeners,
	})

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runErr := make(chan error, 1)
	go func() {
		runErr <- runner.Run(ctx)
	}()

	client := tui.NewClient(runner, bufio.NewReader(os.Stdin), os.Stdout, tui.Options{Voices: voices})
	if err := client.Run(ctx); err != nil {
		return err
	}

	cancel()
	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
