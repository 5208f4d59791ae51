package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/witchbooru/witchbooru/config"
	"github.com/witchbooru/witchbooru/onnx"
	"github.com/witchbooru/witchbooru/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	slog.Info("Starting witchbooru")

	if err := onnx.InitRuntime(); err != nil {
		slog.Error("Failed to initialize ONNX Runtime environment", slog.String("error", err.Error()))
		return
	}
	defer onnx.DestroyRuntime()

	classifier, err := server.Init(ctx)
	if err != nil {
		slog.Error("Failed to initialize server", slog.String("error", err.Error()))
		return
	}

	cfg := config.C()
	gin.SetMode(gin.ReleaseMode)
	r := server.NewRouter(classifier, server.NewFetcher(cfg.FetchTimeoutDuration(), cfg.MaxImageSize))

	addr := cfg.Host + ":" + cfg.Port
	srv := &http.Server{Addr: addr, Handler: r}
	slog.Info("Listening on", slog.String("address", addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", slog.String("error", err.Error()))
	}
}
