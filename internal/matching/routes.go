package matching

import (
	"github.com/gorilla/mux"

	"github.com/aura-collective/aura-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/daily", handler.GetDailyMatches).Methods("GET")
	api.HandleFunc("/compatibility/{userUuid}", handler.GetCompatibility).Methods("GET")
	api.HandleFunc("/scores", handler.InvalidateScores).Methods("DELETE")
}
