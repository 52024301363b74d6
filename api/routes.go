package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/folio/internal/admin"
	"github.com/garnizeh/folio/internal/blob"
	"github.com/garnizeh/folio/internal/config"
)

// Deps are the collaborators the routes dispatch to. Uploader may be nil, in
// which case the upload route is not registered.
type Deps struct {
	Gateway  *admin.Gateway
	Content  *ContentHandler
	Uploader blob.Uploader
}

func SetupRoutes(cfg *config.Config, version, buildTime string, d Deps) http.Handler {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(TimeoutMiddleware(cfg.APITimeout))

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(d.Gateway)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/api/content/{kind}", d.Content.Public).Methods("GET")

	// Admin endpoints; the gateway checks the credential on every call
	adminV1 := r.PathPrefix("/api/admin").Subrouter()
	adminV1.HandleFunc("/status", authHandler.Status).Methods("GET")
	adminV1.HandleFunc("/auth", authHandler.Signin).Methods("POST")
	adminV1.HandleFunc("/{kind}", d.Content.List).Methods("GET")
	adminV1.HandleFunc("/{kind}", d.Content.Create).Methods("POST")
	adminV1.HandleFunc("/{kind}/{key}", d.Content.Update).Methods("PUT")
	adminV1.HandleFunc("/{kind}/{key}", d.Content.Delete).Methods("DELETE")

	if d.Uploader != nil {
		uploadHandler := NewUploadHandler(d.Gateway, d.Uploader, cfg.Blob.MaxBytes)
		r.HandleFunc("/api/upload", uploadHandler.Upload).Methods("POST")
	}
	if cfg.Blob.Dir != "" {
		files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Blob.Dir)))
		r.PathPrefix("/uploads/").Handler(UploadHeadersMiddleware(files)).Methods("GET")
	}

	// CORS wraps the router so preflight requests are answered before route
	// matching, which would otherwise reject OPTIONS.
	return CORSMiddleware(cfg.CORS.AllowedOrigins)(r)
}
