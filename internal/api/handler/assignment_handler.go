package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PAA-LMS/lms-backend/internal/api/middleware"
	"github.com/PAA-LMS/lms-backend/internal/app/service"
	"github.com/PAA-LMS/lms-backend/internal/common"
)

type AssignmentHandler struct {
	assignments *service.AssignmentService
}

func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

func (h *AssignmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.SubmitAssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := h.assignments.Submit(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, sub)
}

func (h *AssignmentHandler) MySubmission(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	sub, err := h.assignments.MySubmission(r.Context(), p, chi.URLParam(r, "materialID"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sub)
}

func (h *AssignmentHandler) ListForMaterial(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	subs, err := h.assignments.ListForMaterial(r.Context(), p, chi.URLParam(r, "materialID"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}

func (h *AssignmentHandler) Grade(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.GradeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := h.assignments.Grade(r.Context(), p, chi.URLParam(r, "submissionID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sub)
}
