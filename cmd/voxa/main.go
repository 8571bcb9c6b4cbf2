package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"voxa/internal/api"
	"voxa/pkg/audiofile"
	"voxa/pkg/cache"
	"voxa/pkg/config"
	"voxa/pkg/db"
	"voxa/pkg/engine"
	"voxa/pkg/logging"
	"voxa/pkg/probe"
	"voxa/pkg/request"
	"voxa/pkg/store"
	"voxa/pkg/stt"
	sttazure "voxa/pkg/stt/azure"
	sttmock "voxa/pkg/stt/mock"
	"voxa/pkg/tts"
	ttsazure "voxa/pkg/tts/azure"
	"voxa/pkg/tts/edge"
	"voxa/pkg/tts/google"
	ttsmock "voxa/pkg/tts/mock"
	"voxa/pkg/version"
	"voxa/pkg/voice"
	"voxa/pkg/voice/emotion"
)

var (
	configPath = flag.String("config", "configs/voxa.yaml", "Path to config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
)

func main() {
	flag.Parse()

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", *configPath)
		return
	}

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log, &appCfg.History)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("Voxa started", "version", version.Version, "config", configPath, "storage", appCfg.Storage.Backend)

	profileStore, synthCache, closeStore, err := initStore(appCfg)
	if err != nil {
		return err
	}
	defer closeStore()

	eng := engine.New(profileStore, emotion.NewEngine(emotion.BuiltinTable()), voice.BuiltinPresets())

	ttsReg, sttReg, closeProviders, err := initProviders(ctx, appCfg)
	if err != nil {
		return err
	}
	defer closeProviders()

	checks := []probe.Probe{
		probe.Storage(profileStore),
		probe.Engine("tts", appCfg.TTS.Engine, ttsReg),
		probe.Engine("stt", appCfg.STT.Engine, sttReg),
		probe.AudioDir(appCfg.Audio.BaseDir),
	}
	if err := probe.Summarize(probe.Run(ctx, checks)); err != nil {
		return fmt.Errorf("preflight checks failed: %w", err)
	}

	loader := audiofile.NewLoader(appCfg.Audio.BaseDir)
	writer := audiofile.NewWriter(appCfg.Audio.BaseDir)

	speechH := api.NewSpeechHandler(eng, ttsReg, sttReg, loader, writer, synthCache, appCfg.TTS.Engine, appCfg.STT.Engine)
	profileH := api.NewProfileHandler(eng)

	srv := api.NewServer(appCfg.Server.Address, profileH, speechH, cancel)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	return runServerLifecycle(ctx, srv, quit)
}

// initStore builds the profile store from config. The sqlite backend also
// carries the synthesis cache; the files backend runs without one.
func initStore(cfg *config.Config) (store.ProfileStore, cache.Cacher, func(), error) {
	switch cfg.Storage.Backend {
	case "files":
		fs, err := store.NewFileStore(cfg.Storage.ProfilesDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		return fs, cache.Null{}, func() {}, nil
	default:
		dbConn, err := db.Init(cfg.DB.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return store.NewSQLiteStore(dbConn), cache.NewSQLiteCache(dbConn), func() { dbConn.Close() }, nil
	}
}

// initProviders builds the TTS/STT registries from config. The mock engines
// are always registered so the service works offline; real backends join
// when configured.
func initProviders(ctx context.Context, cfg *config.Config) (*tts.Registry, *stt.Registry, func(), error) {
	client := request.New(request.Options{
		Retries:   cfg.Request.Retries,
		Timeout:   time.Duration(cfg.Request.Timeout),
		BaseDelay: time.Duration(cfg.Request.Backoff.BaseDelay),
		MaxDelay:  time.Duration(cfg.Request.Backoff.MaxDelay),
	})

	closers := []func(){}

	ttsReg := tts.NewRegistry()
	ttsReg.Register("mock", ttsmock.New())
	if cfg.TTS.AzureSpeech.Key != "" {
		ttsReg.Register("azure", ttsazure.NewProvider(cfg.TTS.AzureSpeech, client))
	}
	ttsReg.Register("edge", edge.NewProvider(cfg.TTS.EdgeTTS.VoiceID, cfg.TTS.DefaultLanguage))
	if cfg.TTS.Engine == "google" {
		gp, err := google.NewProvider(ctx, cfg.TTS.Google.VoiceID, cfg.TTS.Google.Language)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize google TTS: %w", err)
		}
		closers = append(closers, func() { gp.Close() })
		ttsReg.Register("google", gp)
	}

	sttReg := stt.NewRegistry()
	sttReg.Register("mock", sttmock.New())
	if cfg.STT.AzureSpeech.Key != "" {
		sttReg.Register("azure", sttazure.NewRecognizer(cfg.STT.AzureSpeech, client))
	}

	slog.Info("Providers initialized", "tts", ttsReg.Engines(), "stt", sttReg.Engines())
	return ttsReg, sttReg, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
