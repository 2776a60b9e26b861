package http

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/atinyakov/AIWorkspace/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter constructs the HTTP handler of the backend.
//
// Routes:
//
//	GET  /                    health status
//	POST /signup              authHandler.Signup
//	POST /login               authHandler.Login
//	POST /tasks               taskHandler.Create
//	GET  /tasks               taskHandler.List
//	PUT  /tasks/{id}          taskHandler.Update
//	POST /meeting-transcript  transcriptHandler.Create
//	GET  /meeting-transcript  transcriptHandler.List
//	GET  /meeting-summary     transcriptHandler.Summaries
//
// Every origin is allowed by the CORS policy. Request bodies must be JSON;
// a body without a Content-Type is read as JSON. Unknown routes and methods
// get the failure envelope.
func NewRouter(
	authHandler *AuthHandler,
	taskHandler *TaskHandler,
	transcriptHandler *TranscriptHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(requireJSON)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, errRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, errMethodNotAllowed)
	})

	r.Get("/", health)

	r.Post("/signup", authHandler.Signup)
	r.Post("/login", authHandler.Login)

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.Create)
		r.Get("/", taskHandler.List)
		r.Put("/{id}", taskHandler.Update)
	})

	r.Post("/meeting-transcript", transcriptHandler.Create)
	r.Get("/meeting-transcript", transcriptHandler.List)
	r.Get("/meeting-summary", transcriptHandler.Summaries)

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "AI Workspace Backend Running",
	})
}

// requireJSON rejects requests whose body is declared as anything other
// than application/json.
func requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if r.ContentLength == 0 || ct == "" {
			next.ServeHTTP(w, r)
			return
		}
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			writeError(w, fmt.Errorf("%w: %q, expected application/json", errUnsupportedMedia, ct))
			return
		}
		next.ServeHTTP(w, r)
	})
}
