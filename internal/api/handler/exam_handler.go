package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PAA-LMS/lms-backend/internal/api/middleware"
	"github.com/PAA-LMS/lms-backend/internal/app/service"
	"github.com/PAA-LMS/lms-backend/internal/common"
)

// 20 MiB cap on exam paper uploads.
const maxExamFileSize = 20 << 20

type ExamHandler struct {
	exams *service.ExamService
}

func NewExamHandler(exams *service.ExamService) *ExamHandler {
	return &ExamHandler{exams: exams}
}

func (h *ExamHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.CreateExamRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	exam, err := h.exams.Create(r.Context(), p, req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, exam)
}

func (h *ExamHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	exam, err := h.exams.Get(r.Context(), p, chi.URLParam(r, "examID"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, exam)
}

func (h *ExamHandler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	exams, err := h.exams.ListByCourse(r.Context(), p, chi.URLParam(r, "courseID"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, exams)
}

func (h *ExamHandler) Update(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.UpdateExamRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	exam, err := h.exams.Update(r.Context(), p, chi.URLParam(r, "examID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, exam)
}

func (h *ExamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.exams.Delete(r.Context(), p, chi.URLParam(r, "examID")); err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "exam deleted"})
}

// UploadFile accepts a multipart form with a "file" field and attaches the
// stored locator to the exam.
func (h *ExamHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxExamFileSize)
	if err := r.ParseMultipartForm(maxExamFileSize); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	exam, err := h.exams.UploadFile(r.Context(), p, chi.URLParam(r, "examID"), file, header.Filename)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, exam)
}

func (h *ExamHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.SubmitExamRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := h.exams.Submit(r.Context(), p, chi.URLParam(r, "examID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, sub)
}

func (h *ExamHandler) SubmissionStatus(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	status, err := h.exams.SubmissionStatus(r.Context(), p, chi.URLParam(r, "examID"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, status)
}

func (h *ExamHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	subs, err := h.exams.ListSubmissions(r.Context(), p, chi.URLParam(r, "examID"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}

func (h *ExamHandler) GradeSubmission(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var req service.GradeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := h.exams.GradeSubmission(r.Context(), p, chi.URLParam(r, "submissionID"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sub)
}
