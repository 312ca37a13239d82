package handler

import (
	"encoding/json"
	"net/http"

	"airwavectf/internal/api/middleware"
	"airwavectf/internal/app/service"
	"airwavectf/internal/common"

	"github.com/go-chi/chi/v5"
)

type ChallengeHandler struct {
	challengeService  *service.ChallengeService
	submissionService *service.SubmissionService
}

func NewChallengeHandler(cs *service.ChallengeService, ss *service.SubmissionService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: cs, submissionService: ss}
}

func (h *ChallengeHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator) // All challenge routes require auth
	r.Get("/", h.list)
	r.Get("/categories", h.categories)
	r.Get("/difficulties", h.difficulties)
	r.Get("/{challengeID}", h.detail)
	r.Post("/{challengeID}/submit", h.submitFlag)
}

func (h *ChallengeHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	req := service.ListChallengesRequest{
		Category:   r.URL.Query().Get("category"),
		Difficulty: r.URL.Query().Get("difficulty"),
	}
	challenges, err := h.challengeService.List(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"challenges": challenges})
}

func (h *ChallengeHandler) detail(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	challenge, err := h.challengeService.Detail(r.Context(), userID, chi.URLParam(r, "challengeID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, challenge)
}

func (h *ChallengeHandler) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.challengeService.Categories(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

func (h *ChallengeHandler) difficulties(w http.ResponseWriter, r *http.Request) {
	difficulties, err := h.challengeService.Difficulties(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"difficulties": difficulties})
}

func (h *ChallengeHandler) submitFlag(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req service.SubmitFlagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.Flag == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Flag is required")
		return
	}

	result, err := h.submissionService.Submit(r.Context(), principal, chi.URLParam(r, "challengeID"), req.Flag)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}
