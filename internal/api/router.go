package api

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/rohits-web03/filekeep/docs"
	"github.com/rohits-web03/filekeep/internal/api/handlers"
	"github.com/rohits-web03/filekeep/internal/api/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type route struct {
	pattern string
	handler http.HandlerFunc
	session bool
}

func routes(h *handlers.Handler) []route {
	return []route{
		// ---------- PUBLIC ROUTES ----------
		{pattern: "GET /health", handler: h.Health},
		{pattern: "POST /api/v1/auth/sign-up", handler: h.RegisterUser},
		{pattern: "POST /api/v1/auth/login", handler: h.LoginUser},
		{pattern: "GET /api/v1/auth/google/login", handler: h.HandleGoogleLogin},
		{pattern: "GET /api/v1/auth/google/callback", handler: h.HandleGoogleCallback},

		// Owner and file come from the path; private access is authorized by the
		// owner's access token, not by a session.
		{pattern: "GET /api/v1/users/{user}/files/{file}", handler: h.DownloadFile},
		{pattern: "GET /api/v1/users/{user}/files/{file}/metadata", handler: h.FileMetadata},
		{pattern: "PUT /api/v1/users/{user}/files/{file}/access", handler: h.UpdateFileAccess},
		{pattern: "DELETE /api/v1/users/{user}/files/{file}", handler: h.DeleteFile},

		// ---------- SESSION ROUTES ----------
		{pattern: "POST /api/v1/auth/logout", handler: h.Logout, session: true},
		{pattern: "GET /api/v1/auth/token", handler: h.AccessToken, session: true},
		{pattern: "POST /api/v1/files", handler: h.UploadFile, session: true},
		{pattern: "GET /api/v1/files", handler: h.ListFiles, session: true},
	}
}

func SetupRouter(deps handlers.Deps) http.Handler {
	h := handlers.New(deps)
	auth := middleware.Auth(deps.Config.JWTSecret)
	mux := http.NewServeMux()

	for _, rt := range routes(h) {
		var handler http.Handler = rt.handler
		if rt.session {
			handler = auth(handler)
		}
		mux.Handle(rt.pattern, middleware.Metrics(rt.pattern, handler))
	}

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /docs/", httpSwagger.WrapHandler)

	log.Println("Router initialized")
	handler := cors.New(deps.Config.CorsConfig).Handler(mux)
	return middleware.Logger(handler)
}
