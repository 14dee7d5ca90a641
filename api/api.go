// Package api serves the study's pages and JSON endpoints: the consent and
// wizard pages, the timing-event and secret primitives, and the server-side
// stage machine.
package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/storage"
	"github.com/SPR1NGQAQ/Emoji-password-prototype/study"
	"github.com/SPR1NGQAQ/Emoji-password-prototype/web"
)

// API holds the dependencies needed by the page and REST handlers.
type API struct {
	repo     storage.Repository
	recorder *study.Recorder
	sessions *sessionStore
	renderer *web.Renderer
	audit    *auditLogger

	attemptLimit int
	maxGlyphs    int
	csvPath      string
}

//go:embed openapi.yaml
var openapiSpec []byte

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for audit events.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.audit = newAuditLogger(logger)
	}
}

// WithAttemptLimit sets the login attempt limit per condition run.
func WithAttemptLimit(n int) Option {
	return func(a *API) {
		a.attemptLimit = n
	}
}

// WithMaxSecretGlyphs caps the picker input length in grapheme clusters.
// Zero disables the cap.
func WithMaxSecretGlyphs(n int) Option {
	return func(a *API) {
		a.maxGlyphs = n
	}
}

// WithCSVPath sets the dataset file appended to when a participant finishes.
func WithCSVPath(path string) Option {
	return func(a *API) {
		a.csvPath = path
	}
}

// New creates a new API instance.
func New(repo storage.Repository, renderer *web.Renderer, opts ...Option) *API {
	a := &API{
		repo:         repo,
		recorder:     study.NewRecorder(repo),
		sessions:     newSessionStore(),
		renderer:     renderer,
		attemptLimit: study.DefaultAttemptLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.audit == nil {
		a.audit = newAuditLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}
	return a
}

// Router returns a chi.Router with all pages and API routes mounted.
func (a *API) Router() (chi.Router, error) {
	r := chi.NewRouter()

	static, err := web.StaticHandler()
	if err != nil {
		return nil, err
	}
	r.Handle("/static/*", static)

	r.Get("/", a.Home)
	r.Get("/consent", a.ConsentPage)
	r.Post("/consent", a.ConsentSubmit)

	r.Group(func(r chi.Router) {
		r.Use(a.PageSessionMiddleware)
		r.Get("/choose-order", a.ChooseOrderPage)
		r.Post("/choose-order", a.ChooseOrderSubmit)
		r.Get("/start", a.StartPage)
		r.Get("/task/{cond}", a.TaskPage)
		r.Get("/questionnaire", a.QuestionnairePage)
		r.Post("/questionnaire", a.QuestionnaireSubmit)
		r.Get("/done", a.DonePage)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/yaml")
			w.Write(openapiSpec)
		})

		r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
			SpecURL: "/api/openapi.yaml",
			Path:    "api/docs",
		}, nil))

		r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
			SpecURL: "/api/openapi.yaml",
			Path:    "api/redoc",
		}, nil))

		r.Group(func(r chi.Router) {
			r.Use(a.SessionMiddleware)
			r.Post("/event/start", a.EventStart)
			r.Post("/event/end", a.EventEnd)
			r.Post("/secret/set", a.SecretSet)
			r.Post("/secret/check", a.SecretCheck)
			r.Post("/stage/submit", a.StageSubmit)
			r.Get("/stage/state", a.StageState)
		})
	})

	return r, nil
}
