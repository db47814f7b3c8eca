package assessment

import (
	"github.com/gorilla/mux"

	"github.com/aura-collective/aura-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/assessment").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/questions/{category}", handler.GetQuestions).Methods("GET")
	api.HandleFunc("/responses", handler.SubmitResponses).Methods("POST")
	api.HandleFunc("/progress", handler.GetProgress).Methods("GET")
	api.HandleFunc("/results", handler.GetResults).Methods("GET")
	api.HandleFunc("/reset/{category}", handler.ResetCategory).Methods("POST")
	api.HandleFunc("/match/{userId}", handler.GetMatch).Methods("GET")
}
