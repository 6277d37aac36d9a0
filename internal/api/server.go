package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/auto-dns/mira-gateway/internal/config"
	"github.com/auto-dns/mira-gateway/internal/state"
	"github.com/auto-dns/mira-gateway/internal/stream"
)

const serviceName = "mira-api"

// Server holds the handler dependencies and builds the router.
type Server struct {
	runtime   Runtime
	templates Templates
	feed      stream.Subscriber
	sessions  *state.Sessions
	cfg       *config.Config
	upgrader  websocket.Upgrader
	logger    zerolog.Logger
	now       func() time.Time
}

func NewServer(cfg *config.Config, runtime Runtime, templates Templates, feed stream.Subscriber, sessions *state.Sessions, logger zerolog.Logger) *Server {
	s := &Server{
		runtime:   runtime,
		templates: templates,
		feed:      feed,
		sessions:  sessions,
		cfg:       cfg,
		logger:    logger.With().Str("component", "api").Logger(),
		now:       time.Now,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Routes returns the root handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.handleRoot)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/system/health", s.handleHealth)

		r.Route("/containers", func(r chi.Router) {
			r.Get("/", s.listContainers)
			r.Post("/", s.createContainer)
			r.Get("/{id}", s.getContainer)
			r.Get("/{id}/logs", s.containerLogs)
			r.Post("/{id}/start", s.startContainer)
			r.Post("/{id}/stop", s.stopContainer)
			r.Post("/{id}/restart", s.restartContainer)
		})

		r.Route("/images", func(r chi.Router) {
			r.Get("/", s.listImages)
			r.Get("/{id}", s.getImage)
			r.Delete("/{id}", s.deleteImage)
		})

		r.Route("/networks", func(r chi.Router) {
			r.Get("/", s.listNetworks)
			r.Post("/", s.createNetwork)
			r.Get("/{id}", s.getNetwork)
			r.Delete("/{id}", s.deleteNetwork)
		})

		r.Get("/volumes", s.listVolumes)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.listTemplates)
			r.Post("/", s.createTemplate)
			// Static segments win over /{id}.
			r.Get("/export", s.exportTemplates)
			r.Post("/import", s.importTemplates)
			r.Get("/{id}", s.getTemplate)
			r.Put("/{id}", s.updateTemplate)
			r.Delete("/{id}", s.deleteTemplate)
		})

		r.Get("/events/stream", s.streamEvents)
	})

	return r
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	allowed := s.cfg.Server.AllowedOrigins
	return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}
