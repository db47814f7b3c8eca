package assessment

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/aura-collective/aura-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	questions, err := h.service.QuestionsByCategory(r.Context(), category)
	if err != nil {
		if err == ErrInvalidCategory {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get questions")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, questions)
}

func (h *Handler) SubmitResponses(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto SubmitResponsesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.SubmitResponses(r.Context(), userID, dto.Responses)
	if err != nil {
		if err == ErrInvalidResponse {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save responses")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	progress, err := h.service.Progress(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get progress")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, progress)
}

func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	results, err := h.service.Results(r.Context(), userID)
	if err != nil {
		if err == ErrProfileNotFound {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get results")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, results)
}

func (h *Handler) ResetCategory(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	category := mux.Vars(r)["category"]

	profile, err := h.service.ResetCategory(r.Context(), userID, category)
	if err != nil {
		if err == ErrInvalidCategory {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reset category")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	otherID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	explanation, err := h.service.MatchExplanation(r.Context(), userID, otherID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to calculate match")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, explanation)
}
