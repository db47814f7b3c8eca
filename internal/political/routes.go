package political

import (
	"github.com/gorilla/mux"

	"github.com/aura-collective/aura-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/values").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/assessment", handler.SubmitAssessment).Methods("POST")
	api.HandleFunc("/gate-status", handler.GetGateStatus).Methods("GET")
}
