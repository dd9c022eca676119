package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PAA-LMS/lms-backend/internal/api/middleware"
	"github.com/PAA-LMS/lms-backend/internal/app/service"
	"github.com/PAA-LMS/lms-backend/internal/common"
)

type FinanceHandler struct {
	finance *service.FinanceService
}

func NewFinanceHandler(finance *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

func (h *FinanceHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.CreateAnnouncementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := h.finance.CreateAnnouncement(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, a)
}

func (h *FinanceHandler) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	a, err := h.finance.GetAnnouncement(r.Context(), p, chi.URLParam(r, "announcementID"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, a)
}

func (h *FinanceHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	as, err := h.finance.ListAnnouncements(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, as)
}

func (h *FinanceHandler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.UpdateAnnouncementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := h.finance.UpdateAnnouncement(r.Context(), p, chi.URLParam(r, "announcementID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, a)
}

func (h *FinanceHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.finance.DeleteAnnouncement(r.Context(), p, chi.URLParam(r, "announcementID")); err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "announcement deleted"})
}

func (h *FinanceHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.SubmitPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := h.finance.SubmitPayment(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, sub)
}

func (h *FinanceHandler) MySubmissions(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	subs, err := h.finance.MySubmissions(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}

func (h *FinanceHandler) ListForAnnouncement(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	subs, err := h.finance.ListForAnnouncement(r.Context(), p, chi.URLParam(r, "announcementID"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}

func (h *FinanceHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.UpdatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := h.finance.UpdatePayment(r.Context(), p, chi.URLParam(r, "submissionID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sub)
}

func (h *FinanceHandler) Verify(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.VerifyPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := h.finance.Verify(r.Context(), p, chi.URLParam(r, "submissionID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sub)
}
