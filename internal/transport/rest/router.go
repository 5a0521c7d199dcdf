package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"surveyhub/internal/service"
	"surveyhub/internal/transport/rest/handler"
	"surveyhub/internal/transport/rest/middleware"
	"surveyhub/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	SurveyService    *service.SurveyService
	CollectorService *service.CollectorService
	ResultsService   *service.ResultsService
	AdminService     *service.AdminService
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	surveyHandler := handler.NewSurveyHandler(c.SurveyService, c.ResultsService)
	publicHandler := handler.NewPublicHandler(c.CollectorService)
	dashboardHandler := handler.NewDashboardHandler(c.SurveyService)
	adminHandler := handler.NewAdminHandler(c.AdminService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.SurveyService, c.CollectorService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/public/surveys/{slug}", publicHandler.Get).Methods("GET", "OPTIONS")

	// Public submit: anonymous allowed, token attributes the response
	submit := v1.NewRoute().Subrouter()
	submit.Use(authMW.OptionalAuth)
	submit.HandleFunc("/public/surveys/{slug}/responses", publicHandler.Submit).Methods("POST", "OPTIONS")

	// WebSocket live results (token in query param, owner only)
	v1.HandleFunc("/ws/surveys/{surveyId}/results", wsHandler.ResultsWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	authRoutes := v1.NewRoute().Subrouter()
	authRoutes.Use(authMW.RequireAuth)

	authRoutes.HandleFunc("/me", authHandler.Me).Methods("GET", "OPTIONS")
	authRoutes.HandleFunc("/me/profile", authHandler.UpdateProfile).Methods("PUT", "OPTIONS")

	authRoutes.HandleFunc("/surveys", surveyHandler.Create).Methods("POST", "OPTIONS")
	authRoutes.HandleFunc("/surveys", surveyHandler.List).Methods("GET", "OPTIONS")
	authRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Get).Methods("GET", "OPTIONS")
	authRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Update).Methods("PUT", "OPTIONS")
	authRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Delete).Methods("DELETE", "OPTIONS")
	authRoutes.HandleFunc("/surveys/{surveyId}/edit", surveyHandler.GetForEdit).Methods("GET", "OPTIONS")
	authRoutes.HandleFunc("/surveys/{surveyId}/publish", surveyHandler.Publish).Methods("POST", "OPTIONS")
	authRoutes.HandleFunc("/surveys/{surveyId}/close", surveyHandler.Close).Methods("POST", "OPTIONS")
	authRoutes.HandleFunc("/surveys/{surveyId}/results", surveyHandler.Results).Methods("GET", "OPTIONS")

	authRoutes.HandleFunc("/dashboard/stats", dashboardHandler.Stats).Methods("GET", "OPTIONS")
	authRoutes.HandleFunc("/dashboard/timeline", dashboardHandler.Timeline).Methods("GET", "OPTIONS")

	// Admin routes
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/users", adminHandler.ListUsers).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/users/{userId}", adminHandler.UpdateUser).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/roles", adminHandler.ListRoles).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/roles/{userId}", adminHandler.AssignRole).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/roles/{userId}", adminHandler.RevokeRole).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/audit", adminHandler.Audit).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
