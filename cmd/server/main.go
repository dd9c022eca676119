package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PAA-LMS/lms-backend/internal/api"
	"github.com/PAA-LMS/lms-backend/internal/app/authz"
	"github.com/PAA-LMS/lms-backend/internal/app/service"
	"github.com/PAA-LMS/lms-backend/internal/common/security"
	"github.com/PAA-LMS/lms-backend/internal/domain/repository"
	"github.com/PAA-LMS/lms-backend/internal/platform/config"
	"github.com/PAA-LMS/lms-backend/internal/platform/database"
	"github.com/PAA-LMS/lms-backend/internal/platform/filestore"
	"github.com/PAA-LMS/lms-backend/internal/platform/tokenstore"
)

func main() {
	config.Load()
	security.InitJWT()

	database.Connect()
	defer database.Close()

	tokenstore.Connect()
	defer tokenstore.Close()

	files, err := filestore.New(config.AppConfig.ExamFilesDir)
	if err != nil {
		log.Fatalf("Could not initialize file store: %v", err)
	}

	userRepo := repository.NewPgUserRepository(database.DB)
	courseRepo := repository.NewPgCourseRepository(database.DB)
	weekRepo := repository.NewPgWeekRepository(database.DB)
	materialRepo := repository.NewPgMaterialRepository(database.DB)
	assignmentRepo := repository.NewPgAssignmentSubmissionRepository(database.DB)
	examRepo := repository.NewPgExamRepository(database.DB)
	paymentRepo := repository.NewPgPaymentRepository(database.DB)
	tx := repository.NewTransactor(database.DB)

	resolver := service.NewOwnershipResolver(userRepo, courseRepo, weekRepo, materialRepo, examRepo, assignmentRepo)
	guard := authz.NewGuard(resolver)

	services := api.Services{
		Auth:       service.NewAuthService(userRepo, tx),
		Users:      service.NewUserService(userRepo, guard, tx),
		Catalog:    service.NewCatalogService(userRepo, courseRepo, weekRepo, materialRepo, examRepo, assignmentRepo, guard, tx),
		Assignment: service.NewAssignmentService(userRepo, materialRepo, assignmentRepo, guard, tx),
		Exam:       service.NewExamService(userRepo, courseRepo, examRepo, files, guard, tx),
		Finance:    service.NewFinanceService(userRepo, paymentRepo, guard, tx),
	}

	router := api.NewRouter(services, userRepo)

	server := &http.Server{
		Addr:    ":" + config.AppConfig.APIPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}
