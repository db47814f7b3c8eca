package intake

import (
	"github.com/gorilla/mux"

	"github.com/aura-collective/aura-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/intake").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/progress", handler.GetProgress).Methods("GET")
	api.HandleFunc("/steps/{step}/complete", handler.CompleteStep).Methods("POST")
}
