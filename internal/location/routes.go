package location

import (
	"github.com/gorilla/mux"

	"github.com/aura-collective/aura-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/location").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/areas", handler.GetAreas).Methods("GET")
	api.HandleFunc("/areas", handler.SetAreas).Methods("PUT")
	api.HandleFunc("/preferences", handler.GetPreferences).Methods("GET")
	api.HandleFunc("/preferences", handler.UpdatePreferences).Methods("PUT")
}
