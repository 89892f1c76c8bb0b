package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/balloon-darts/internal/commentary"
	"github.com/tomz197/balloon-darts/internal/config"
	"github.com/tomz197/balloon-darts/internal/web"
)

//go:embed index.html
var htmlPage string

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           settings.Level(),
		ReportTimestamp: true,
	})

	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", settings.SSHDisplayHost())

	handler := web.NewHandler(web.Options{
		TickRate:  settings.TickRate,
		Generator: commentary.FromSettings(settings.Commentary, logger),
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(settings.Web.Host, settings.Web.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           web.NewMux([]byte(page), handler),
		ReadHeaderTimeout: 10 * time.Second,
		// Hijacked sockets outlive Shutdown; the signal ends their games.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info("starting web server", "url", "http://"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
