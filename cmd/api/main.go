package main

import (
	"context"
	"net/http"
	"time"

	"autotube/internal/adapters/speech"
	"autotube/internal/adapters/thumbnail"
	"autotube/internal/adapters/youtube"
	"autotube/internal/config"
	"autotube/internal/httpapi"
	"autotube/internal/jobs"
	"autotube/internal/pkg/logger"
	"autotube/internal/pkg/shutdown"
	"autotube/internal/render"
	"autotube/internal/repositories"
	"autotube/internal/storage"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault().LogFatal("invalid configuration", err)
	}

	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "autotube-api",
		AddSource:   cfg.Log.AddSource,
	})
	log.Info("starting autotube API", "version", version)

	ctx := context.Background()
	shutdownMgr := shutdown.NewManager(log, cfg.HTTP.ShutdownTimeout)

	// Job store
	log.Info("connecting job store", "driver", cfg.Store.Driver)
	store, closeStore, err := repositories.NewJobStore(ctx, cfg.Store)
	if err != nil {
		log.LogFatal("failed to initialize job store", err)
	}
	shutdownMgr.Register("job-store", closeStore)
	log.Info("job store ready", "driver", store.Driver())

	// Artifact storage
	sp, err := storage.NewProvider(ctx, cfg.Storage)
	if err != nil {
		log.LogFatal("failed to initialize storage provider", err)
	}
	log.Info("storage provider initialized", "provider", sp.Provider())

	archive, err := storage.NewArchive(ctx, cfg.Archive)
	if err != nil {
		log.LogFatal("failed to initialize archive", err)
	}
	if archive != nil {
		log.Info("video archive enabled", "provider", archive.Provider())
	}

	// Collaborators
	synth, err := speech.New(cfg.TTS)
	if err != nil {
		log.LogFatal("failed to initialize tts engine", err)
	}
	thumbs, err := thumbnail.New()
	if err != nil {
		log.LogFatal("failed to initialize thumbnail renderer", err)
	}

	paths := jobs.Paths{
		PublicBase:   cfg.Dirs.PublicBase,
		AudioDir:     cfg.Dirs.AudioDir,
		ThumbnailDir: cfg.Dirs.ThumbnailDir,
		VideoDir:     cfg.Dirs.VideoDir,
	}
	renderer, err := render.New(cfg.Render, cfg.Dirs.WorkDir, sp, paths.VideoKey)
	if err != nil {
		log.LogFatal("failed to initialize video renderer", err)
	}
	uploader := youtube.New(cfg.YouTube)
	if !uploader.CredentialsAvailable() {
		log.Warn("YouTube credentials not found, uploads will report requires_credentials",
			"client_secrets", cfg.YouTube.ClientSecretsFile,
			"token", cfg.YouTube.TokenFile,
		)
	}

	svc := jobs.NewService(jobs.Deps{
		Store:      store,
		Storage:    sp,
		Speech:     synth,
		Thumbnails: thumbs,
		Renderer:   renderer,
		Uploader:   uploader,
		Archive:    archive,
		Paths:      paths,
		Log:        log,
	})

	router := httpapi.NewRouter(httpapi.Deps{
		Jobs:        svc,
		Store:       store,
		Storage:     sp,
		Log:         log,
		CORSOrigins: cfg.HTTP.CORSAllowedOrigins,
		PublicBase:  cfg.Dirs.PublicBase,
		Version:     version,
	})

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr, "tts", synth.Engine(), "render", renderer.Engine())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	if err := shutdownMgr.Wait(ctx); err != nil {
		log.Error("shutdown finished with errors", "error", err.Error())
	}
}
