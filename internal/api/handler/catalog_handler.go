package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/PAA-LMS/lms-backend/internal/api/middleware"
	"github.com/PAA-LMS/lms-backend/internal/app/service"
	"github.com/PAA-LMS/lms-backend/internal/common"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.CreateCourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	course, err := h.catalog.CreateCourse(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, course)
}

func (h *CatalogHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	course, err := h.catalog.GetCourse(r.Context(), p, chi.URLParam(r, "courseID"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, course)
}

func (h *CatalogHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	courses, err := h.catalog.ListCourses(r.Context(), p, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, courses)
}

func (h *CatalogHandler) MyCourses(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	courses, err := h.catalog.MyCourses(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, courses)
}

func (h *CatalogHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.UpdateCourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	course, err := h.catalog.UpdateCourse(r.Context(), p, chi.URLParam(r, "courseID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, course)
}

func (h *CatalogHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.catalog.DeleteCourse(r.Context(), p, chi.URLParam(r, "courseID")); err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "course deleted"})
}

func (h *CatalogHandler) CreateWeek(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.CreateWeekRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	week, err := h.catalog.CreateWeek(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, week)
}

func (h *CatalogHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	week, err := h.catalog.GetWeek(r.Context(), p, chi.URLParam(r, "weekID"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, week)
}

func (h *CatalogHandler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	weeks, err := h.catalog.ListWeeks(r.Context(), p, chi.URLParam(r, "courseID"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, weeks)
}

func (h *CatalogHandler) UpdateWeek(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.UpdateWeekRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	week, err := h.catalog.UpdateWeek(r.Context(), p, chi.URLParam(r, "weekID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, week)
}

func (h *CatalogHandler) DeleteWeek(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.catalog.DeleteWeek(r.Context(), p, chi.URLParam(r, "weekID")); err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "week deleted"})
}

func (h *CatalogHandler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.CreateMaterialRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	material, err := h.catalog.CreateMaterial(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, material)
}

func (h *CatalogHandler) GetMaterial(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	material, err := h.catalog.GetMaterial(r.Context(), p, chi.URLParam(r, "materialID"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, material)
}

func (h *CatalogHandler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	materials, err := h.catalog.ListMaterials(r.Context(), p, chi.URLParam(r, "weekID"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, materials)
}

func (h *CatalogHandler) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.UpdateMaterialRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	material, err := h.catalog.UpdateMaterial(r.Context(), p, chi.URLParam(r, "materialID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, material)
}

func (h *CatalogHandler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.catalog.DeleteMaterial(r.Context(), p, chi.URLParam(r, "materialID")); err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "material deleted"})
}
