// Command server starts the AI Mock Interviewer HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai/openrouter"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/repo/sqlite"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/textextract"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/transcribe"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/app"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/config"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("db open failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	sessRepo := sqlite.NewSessionRepo(db)
	ansRepo := sqlite.NewAnswerRepo(db)

	aicl := openrouter.New(cfg)
	ext := textextract.New()

	profileSvc := usecase.NewProfileService(aicl, cfg.AnalysisModel)
	questionSvc := usecase.NewQuestionService(aicl, cfg.ScoringModel)
	followUpSvc := usecase.NewFollowUpService(aicl, cfg.ScoringModel)
	analyzeSvc := usecase.NewAnalyzeService(aicl, cfg.ScoringModel)

	sessions := usecase.NewSessionService(sessRepo, ansRepo, ext, profileSvc, questionSvc, followUpSvc, analyzeSvc)
	sessions.PersistMaxElapsed = cfg.PersistMaxElapsed
	reports := usecase.NewReportService(sessions, ansRepo)

	srv := &httpserver.Server{
		Sessions:    sessions,
		Reports:     reports,
		Transcriber: transcribe.New(cfg.TranscribeURL, 2*time.Minute),
		MaxUploadMB: cfg.MaxUploadMB,
	}
	handler := app.BuildRouter(srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
