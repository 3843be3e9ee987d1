package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"autotube/internal/httpapi/handlers"
	"autotube/internal/httpkit"
	"autotube/internal/jobs"
	"autotube/internal/pkg/logger"
	"autotube/internal/pkg/middleware"
	"autotube/internal/ports"
)

type Deps struct {
	Jobs        *jobs.Service
	Store       ports.JobStore
	Storage     ports.StorageProvider
	Log         *logger.Logger
	CORSOrigins []string
	PublicBase  string
	Version     string
}

func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	if d.PublicBase == "" {
		d.PublicBase = "/static"
	}
	if len(d.CORSOrigins) == 0 {
		d.CORSOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(d.Log))
	r.Use(middleware.Recovery(d.Log))
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	h := handlers.New(handlers.Deps{
		Jobs:    d.Jobs,
		Store:   d.Store,
		Storage: d.Storage,
		Log:     d.Log,
		Version: d.Version,
	})
	wrap := func(fn middleware.ErrorHandlerFunc) http.HandlerFunc {
		return middleware.WrapHandler(d.Log, fn)
	}

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/hello", h.Hello)
		r.Post("/generate", wrap(h.Generate))
		r.Get("/jobs", wrap(h.ListJobs))
		r.Get("/jobs/{jobId}", wrap(h.GetJob))
		r.Post("/tts", wrap(h.TTS))
		r.Post("/thumbnail", wrap(h.Thumbnail))
		r.Post("/upload", wrap(h.Upload))
	})

	r.Get(d.PublicBase+"/*", wrap(h.Static))

	return r
}
