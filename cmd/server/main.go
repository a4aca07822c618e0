// Command server starts the AI Interviewer HTTP server.
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

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	httpserver "github.com/fairyhunter13/ai-interviewer/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-interviewer/internal/adapter/llm/ollama"
	"github.com/fairyhunter13/ai-interviewer/internal/adapter/media"
	"github.com/fairyhunter13/ai-interviewer/internal/adapter/observability"
	memorystore "github.com/fairyhunter13/ai-interviewer/internal/adapter/session/memory"
	redisstore "github.com/fairyhunter13/ai-interviewer/internal/adapter/session/redis"
	"github.com/fairyhunter13/ai-interviewer/internal/adapter/speech/whisper"
	"github.com/fairyhunter13/ai-interviewer/internal/adapter/textextract"
	"github.com/fairyhunter13/ai-interviewer/internal/app"
	"github.com/fairyhunter13/ai-interviewer/internal/config"
	"github.com/fairyhunter13/ai-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-interviewer/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Background tasks (sweeper, session janitor) stop on this context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session store
	var sessions domain.SessionStore
	var sessionPinger app.Pinger
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		store := redisstore.New(rdb, cfg.SessionTTL)
		sessions = store
		sessionPinger = store
		slog.Info("session store: redis", slog.String("addr", cfg.RedisAddr), slog.Duration("ttl", cfg.SessionTTL))
	default:
		store := memorystore.New(cfg.SessionTTL)
		go store.RunJanitor(ctx, cfg.SessionSweepInterval)
		sessions = store
		slog.Info("session store: memory", slog.Duration("ttl", cfg.SessionTTL))
	}

	// Media store and retention sweeper
	mediaStore, err := media.NewStore(cfg.MediaDir)
	if err != nil {
		slog.Error("media store init failed", slog.Any("error", err))
		os.Exit(1)
	}
	sweeper := media.NewSweeper(mediaStore.Root(), cfg.MediaRetention)
	go sweeper.RunPeriodic(ctx, cfg.SweepInterval)
	slog.Info("media sweeper started", slog.Duration("retention", cfg.MediaRetention), slog.Duration("interval", cfg.SweepInterval))

	// External clients
	llm := ollama.New(cfg.OllamaBaseURL, cfg.LLMStreamTimeout, cfg.LLMGenerateTimeout)
	stt := whisper.New(cfg.WhisperBaseURL, cfg.STTMaxElapsed)
	extractor := textextract.New()

	// Usecases
	skillSvc := usecase.NewSkillService(llm, cfg.OllamaModel)
	questionSvc := usecase.NewQuestionService(llm, cfg.OllamaModel)
	interviewSvc := usecase.NewInterviewService(skillSvc, questionSvc, sessions)
	evaluateSvc := usecase.NewEvaluateService(llm, cfg.OllamaModel, sessions)
	speechSvc := usecase.NewSpeechService(mediaStore, stt)

	llmCheck, sttCheck, sessionCheck := app.BuildReadinessChecks(cfg, sessionPinger)

	srv := httpserver.NewServer(cfg, interviewSvc, evaluateSvc, speechSvc, extractor, llmCheck, sttCheck, sessionCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
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

	// Stop the sweeper and janitor before draining in-flight requests.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer shutdownCancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
