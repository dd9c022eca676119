package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"github.com/PAA-LMS/lms-backend/internal/api/handler"
	"github.com/PAA-LMS/lms-backend/internal/api/middleware"
	"github.com/PAA-LMS/lms-backend/internal/app/service"
	"github.com/PAA-LMS/lms-backend/internal/common/security"
	"github.com/PAA-LMS/lms-backend/internal/domain/repository"
)

type Services struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Catalog    *service.CatalogService
	Assignment *service.AssignmentService
	Exam       *service.ExamService
	Finance    *service.FinanceService
}

func NewRouter(svc Services, userRepo repository.UserRepository) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	authHandler := handler.NewAuthHandler(svc.Auth)
	userHandler := handler.NewUserHandler(svc.Users)
	adminHandler := handler.NewAdminHandler(svc.Users)
	catalogHandler := handler.NewCatalogHandler(svc.Catalog)
	assignmentHandler := handler.NewAssignmentHandler(svc.Assignment)
	examHandler := handler.NewExamHandler(svc.Exam)
	financeHandler := handler.NewFinanceHandler(svc.Finance)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public.
		r.Group(func(r chi.Router) {
			r.Post("/auth/signup", authHandler.Signup)
			r.Post("/auth/login", authHandler.Login)
		})

		// Authenticated.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(security.TokenAuth))
			r.Use(middleware.Authenticator(userRepo))

			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", userHandler.Me)
				r.Put("/me/lecturer-profile", userHandler.UpdateMyLecturerProfile)
				r.Put("/me/student-profile", userHandler.UpdateMyStudentProfile)
				r.Get("/{userID}", userHandler.Get)
				r.Put("/{userID}", userHandler.Update)
				r.Delete("/{userID}", userHandler.Delete)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/users", adminHandler.ListUsers)
				r.Post("/users", adminHandler.CreateUser)
				r.Put("/users/{userID}/active", adminHandler.SetActive)
				r.Delete("/users/{userID}", adminHandler.DeleteUser)
			})

			r.Route("/courses", func(r chi.Router) {
				r.Post("/", catalogHandler.CreateCourse)
				r.Get("/", catalogHandler.ListCourses)
				r.Get("/my", catalogHandler.MyCourses)
				r.Get("/{courseID}", catalogHandler.GetCourse)
				r.Put("/{courseID}", catalogHandler.UpdateCourse)
				r.Delete("/{courseID}", catalogHandler.DeleteCourse)
				r.Get("/{courseID}/weeks", catalogHandler.ListWeeks)
				r.Get("/{courseID}/exams", examHandler.ListByCourse)
			})

			r.Route("/course-weeks", func(r chi.Router) {
				r.Post("/", catalogHandler.CreateWeek)
				r.Get("/{weekID}", catalogHandler.GetWeek)
				r.Put("/{weekID}", catalogHandler.UpdateWeek)
				r.Delete("/{weekID}", catalogHandler.DeleteWeek)
				r.Get("/{weekID}/materials", catalogHandler.ListMaterials)
			})

			r.Route("/course-materials", func(r chi.Router) {
				r.Post("/", catalogHandler.CreateMaterial)
				r.Get("/{materialID}", catalogHandler.GetMaterial)
				r.Put("/{materialID}", catalogHandler.UpdateMaterial)
				r.Delete("/{materialID}", catalogHandler.DeleteMaterial)
			})

			r.Route("/assignments", func(r chi.Router) {
				r.Post("/submit", assignmentHandler.Submit)
				r.Get("/material/{materialID}/submissions", assignmentHandler.ListForMaterial)
				r.Get("/material/{materialID}/my-submission", assignmentHandler.MySubmission)
				r.Put("/submissions/{submissionID}", assignmentHandler.Grade)
			})

			r.Route("/exams", func(r chi.Router) {
				r.Post("/", examHandler.Create)
				r.Get("/{examID}", examHandler.Get)
				r.Put("/{examID}", examHandler.Update)
				r.Delete("/{examID}", examHandler.Delete)
				r.Post("/{examID}/upload", examHandler.UploadFile)
				r.Post("/{examID}/submit", examHandler.Submit)
				r.Get("/{examID}/submission-status", examHandler.SubmissionStatus)
				r.Get("/{examID}/submissions", examHandler.ListSubmissions)
				r.Put("/submissions/{submissionID}", examHandler.GradeSubmission)
			})

			r.Route("/finance", func(r chi.Router) {
				r.Post("/announcements", financeHandler.CreateAnnouncement)
				r.Get("/announcements", financeHandler.ListAnnouncements)
				r.Get("/announcements/{announcementID}", financeHandler.GetAnnouncement)
				r.Put("/announcements/{announcementID}", financeHandler.UpdateAnnouncement)
				r.Delete("/announcements/{announcementID}", financeHandler.DeleteAnnouncement)

				r.Post("/submissions", financeHandler.SubmitPayment)
				r.Get("/submissions/my", financeHandler.MySubmissions)
				r.Get("/submissions/announcement/{announcementID}", financeHandler.ListForAnnouncement)
				r.Put("/submissions/{submissionID}", financeHandler.UpdatePayment)
				r.Put("/submissions/{submissionID}/verify", financeHandler.Verify)
			})
		})
	})

	return r
}
