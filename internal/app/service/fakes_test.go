package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/PAA-LMS/lms-backend/internal/app/authz"
	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
	"github.com/PAA-LMS/lms-backend/internal/domain/repository"
)

// In-memory repository fakes. They mirror the Postgres implementations'
// observable behavior: NotFound on missing rows and Conflict on duplicate
// (owner, target) pairs. The fake transactor passes a nil *sql.Tx; the fakes
// never touch it.

type fakeTransactor struct{}

func (fakeTransactor) WithinTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type fakeUserRepo struct {
	users            map[string]model.User
	lecturerProfiles map[string]model.LecturerProfile
	studentProfiles  map[string]model.StudentProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:            map[string]model.User{},
		lecturerProfiles: map[string]model.LecturerProfile{},
		studentProfiles:  map[string]model.StudentProfile{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, _ *sql.Tx, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return fmt.Errorf("email or username already registered: %w", common.ErrConflict)
		}
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context, role *model.Role, limit, offset int) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if role == nil || u.Role == *role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return common.ErrNotFound
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, _ *sql.Tx, id string) error {
	if _, ok := f.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) CreateLecturerProfile(_ context.Context, _ *sql.Tx, p *model.LecturerProfile) error {
	f.lecturerProfiles[p.ID] = *p
	return nil
}

func (f *fakeUserRepo) CreateStudentProfile(_ context.Context, _ *sql.Tx, p *model.StudentProfile) error {
	f.studentProfiles[p.ID] = *p
	return nil
}

func (f *fakeUserRepo) LecturerProfileByUserID(_ context.Context, userID string) (*model.LecturerProfile, error) {
	for _, p := range f.lecturerProfiles {
		if p.UserID == userID {
			p := p
			return &p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) LecturerProfileByID(_ context.Context, id string) (*model.LecturerProfile, error) {
	p, ok := f.lecturerProfiles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (f *fakeUserRepo) StudentProfileByUserID(_ context.Context, userID string) (*model.StudentProfile, error) {
	for _, p := range f.studentProfiles {
		if p.UserID == userID {
			p := p
			return &p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) StudentProfileByID(_ context.Context, id string) (*model.StudentProfile, error) {
	p, ok := f.studentProfiles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (f *fakeUserRepo) UpdateLecturerProfile(_ context.Context, p *model.LecturerProfile) error {
	if _, ok := f.lecturerProfiles[p.ID]; !ok {
		return common.ErrNotFound
	}
	f.lecturerProfiles[p.ID] = *p
	return nil
}

func (f *fakeUserRepo) UpdateStudentProfile(_ context.Context, p *model.StudentProfile) error {
	if _, ok := f.studentProfiles[p.ID]; !ok {
		return common.ErrNotFound
	}
	f.studentProfiles[p.ID] = *p
	return nil
}

func (f *fakeUserRepo) DeleteProfilesByUserID(_ context.Context, _ *sql.Tx, userID string) error {
	for id, p := range f.lecturerProfiles {
		if p.UserID == userID {
			delete(f.lecturerProfiles, id)
		}
	}
	for id, p := range f.studentProfiles {
		if p.UserID == userID {
			delete(f.studentProfiles, id)
		}
	}
	return nil
}

type fakeCourseRepo struct {
	courses map[string]model.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[string]model.Course{}}
}

func (f *fakeCourseRepo) Create(_ context.Context, c *model.Course) error {
	f.courses[c.ID] = *c
	return nil
}

func (f *fakeCourseRepo) FindByID(_ context.Context, id string) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCourseRepo) List(_ context.Context, limit, offset int) ([]model.Course, error) {
	var out []model.Course
	for _, c := range f.courses {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourseRepo) ListByLecturer(_ context.Context, lecturerProfileID string) ([]model.Course, error) {
	var out []model.Course
	for _, c := range f.courses {
		if c.LecturerID == lecturerProfileID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) Update(_ context.Context, c *model.Course) error {
	if _, ok := f.courses[c.ID]; !ok {
		return common.ErrNotFound
	}
	f.courses[c.ID] = *c
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, _ *sql.Tx, id string) error {
	if _, ok := f.courses[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.courses, id)
	return nil
}

type fakeWeekRepo struct {
	weeks map[string]model.CourseWeek
}

func newFakeWeekRepo() *fakeWeekRepo {
	return &fakeWeekRepo{weeks: map[string]model.CourseWeek{}}
}

func (f *fakeWeekRepo) Create(_ context.Context, w *model.CourseWeek) error {
	f.weeks[w.ID] = *w
	return nil
}

func (f *fakeWeekRepo) FindByID(_ context.Context, id string) (*model.CourseWeek, error) {
	w, ok := f.weeks[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &w, nil
}

func (f *fakeWeekRepo) ListByCourse(_ context.Context, courseID string) ([]model.CourseWeek, error) {
	var out []model.CourseWeek
	for _, w := range f.weeks {
		if w.CourseID == courseID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWeekRepo) Update(_ context.Context, w *model.CourseWeek) error {
	if _, ok := f.weeks[w.ID]; !ok {
		return common.ErrNotFound
	}
	f.weeks[w.ID] = *w
	return nil
}

func (f *fakeWeekRepo) Delete(_ context.Context, _ *sql.Tx, id string) error {
	if _, ok := f.weeks[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.weeks, id)
	return nil
}

func (f *fakeWeekRepo) DeleteByCourse(_ context.Context, _ *sql.Tx, courseID string) error {
	for id, w := range f.weeks {
		if w.CourseID == courseID {
			delete(f.weeks, id)
		}
	}
	return nil
}

type fakeMaterialRepo struct {
	materials map[string]model.CourseMaterial
	weeks     *fakeWeekRepo
}

func newFakeMaterialRepo(weeks *fakeWeekRepo) *fakeMaterialRepo {
	return &fakeMaterialRepo{materials: map[string]model.CourseMaterial{}, weeks: weeks}
}

func (f *fakeMaterialRepo) Create(_ context.Context, m *model.CourseMaterial) error {
	f.materials[m.ID] = *m
	return nil
}

func (f *fakeMaterialRepo) FindByID(_ context.Context, id string) (*model.CourseMaterial, error) {
	m, ok := f.materials[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMaterialRepo) ListByWeek(_ context.Context, weekID string) ([]model.CourseMaterial, error) {
	var out []model.CourseMaterial
	for _, m := range f.materials {
		if m.WeekID == weekID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMaterialRepo) Update(_ context.Context, m *model.CourseMaterial) error {
	if _, ok := f.materials[m.ID]; !ok {
		return common.ErrNotFound
	}
	f.materials[m.ID] = *m
	return nil
}

func (f *fakeMaterialRepo) Delete(_ context.Context, _ *sql.Tx, id string) error {
	if _, ok := f.materials[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.materials, id)
	return nil
}

func (f *fakeMaterialRepo) DeleteByWeek(_ context.Context, _ *sql.Tx, weekID string) error {
	for id, m := range f.materials {
		if m.WeekID == weekID {
			delete(f.materials, id)
		}
	}
	return nil
}

func (f *fakeMaterialRepo) DeleteByCourse(ctx context.Context, tx *sql.Tx, courseID string) error {
	for id, m := range f.materials {
		w, ok := f.weeks.weeks[m.WeekID]
		if ok && w.CourseID == courseID {
			delete(f.materials, id)
		}
	}
	return nil
}

func (f *fakeMaterialRepo) courseOf(materialID string) (string, bool) {
	m, ok := f.materials[materialID]
	if !ok {
		return "", false
	}
	w, ok := f.weeks.weeks[m.WeekID]
	if !ok {
		return "", false
	}
	return w.CourseID, true
}

type fakeAssignmentRepo struct {
	submissions map[string]model.AssignmentSubmission
	materials   *fakeMaterialRepo
}

func newFakeAssignmentRepo(materials *fakeMaterialRepo) *fakeAssignmentRepo {
	return &fakeAssignmentRepo{submissions: map[string]model.AssignmentSubmission{}, materials: materials}
}

func (f *fakeAssignmentRepo) Create(_ context.Context, _ *sql.Tx, s *model.AssignmentSubmission) error {
	for _, existing := range f.submissions {
		if existing.AssignmentID == s.AssignmentID && existing.StudentID == s.StudentID {
			return fmt.Errorf("submission already exists for this assignment: %w", common.ErrConflict)
		}
	}
	f.submissions[s.ID] = *s
	return nil
}

func (f *fakeAssignmentRepo) Update(_ context.Context, _ *sql.Tx, s *model.AssignmentSubmission) error {
	if _, ok := f.submissions[s.ID]; !ok {
		return common.ErrNotFound
	}
	f.submissions[s.ID] = *s
	return nil
}

func (f *fakeAssignmentRepo) FindByID(_ context.Context, id string) (*model.AssignmentSubmission, error) {
	s, ok := f.submissions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &s, nil
}

func (f *fakeAssignmentRepo) FindByAssignmentAndStudent(_ context.Context, assignmentID, studentID string) (*model.AssignmentSubmission, error) {
	for _, s := range f.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			s := s
			return &s, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeAssignmentRepo) ListByAssignment(_ context.Context, assignmentID string) ([]model.AssignmentSubmissionWithStudent, error) {
	var out []model.AssignmentSubmissionWithStudent
	for _, s := range f.submissions {
		if s.AssignmentID == assignmentID {
			out = append(out, model.AssignmentSubmissionWithStudent{AssignmentSubmission: s})
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) DeleteByMaterial(_ context.Context, _ *sql.Tx, materialID string) error {
	for id, s := range f.submissions {
		if s.AssignmentID == materialID {
			delete(f.submissions, id)
		}
	}
	return nil
}

func (f *fakeAssignmentRepo) DeleteByWeek(_ context.Context, _ *sql.Tx, weekID string) error {
	for id, s := range f.submissions {
		m, ok := f.materials.materials[s.AssignmentID]
		if ok && m.WeekID == weekID {
			delete(f.submissions, id)
		}
	}
	return nil
}

func (f *fakeAssignmentRepo) DeleteByCourse(_ context.Context, _ *sql.Tx, courseID string) error {
	for id, s := range f.submissions {
		if c, ok := f.materials.courseOf(s.AssignmentID); ok && c == courseID {
			delete(f.submissions, id)
		}
	}
	return nil
}

type fakeExamRepo struct {
	exams       map[string]model.Exam
	submissions map[string]model.ExamSubmission
}

func newFakeExamRepo() *fakeExamRepo {
	return &fakeExamRepo{exams: map[string]model.Exam{}, submissions: map[string]model.ExamSubmission{}}
}

func (f *fakeExamRepo) CreateExam(_ context.Context, e *model.Exam) error {
	f.exams[e.ID] = *e
	return nil
}

func (f *fakeExamRepo) FindExamByID(_ context.Context, id string) (*model.Exam, error) {
	e, ok := f.exams[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &e, nil
}

func (f *fakeExamRepo) ListExamsByCourse(_ context.Context, courseID string) ([]model.Exam, error) {
	var out []model.Exam
	for _, e := range f.exams {
		if e.CourseID == courseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExamRepo) UpdateExam(_ context.Context, e *model.Exam) error {
	if _, ok := f.exams[e.ID]; !ok {
		return common.ErrNotFound
	}
	f.exams[e.ID] = *e
	return nil
}

func (f *fakeExamRepo) DeleteExam(_ context.Context, _ *sql.Tx, id string) error {
	if _, ok := f.exams[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.exams, id)
	return nil
}

func (f *fakeExamRepo) DeleteExamsByCourse(_ context.Context, _ *sql.Tx, courseID string) error {
	for id, e := range f.exams {
		if e.CourseID == courseID {
			delete(f.exams, id)
		}
	}
	return nil
}

func (f *fakeExamRepo) CreateSubmission(_ context.Context, _ *sql.Tx, s *model.ExamSubmission) error {
	for _, existing := range f.submissions {
		if existing.ExamID == s.ExamID && existing.StudentID == s.StudentID {
			return fmt.Errorf("exam already submitted: %w", common.ErrConflict)
		}
	}
	f.submissions[s.ID] = *s
	return nil
}

func (f *fakeExamRepo) UpdateSubmission(_ context.Context, _ *sql.Tx, s *model.ExamSubmission) error {
	if _, ok := f.submissions[s.ID]; !ok {
		return common.ErrNotFound
	}
	f.submissions[s.ID] = *s
	return nil
}

func (f *fakeExamRepo) FindSubmissionByID(_ context.Context, id string) (*model.ExamSubmission, error) {
	s, ok := f.submissions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &s, nil
}

func (f *fakeExamRepo) FindSubmissionByExamAndStudent(_ context.Context, examID, studentID string) (*model.ExamSubmission, error) {
	for _, s := range f.submissions {
		if s.ExamID == examID && s.StudentID == studentID {
			s := s
			return &s, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeExamRepo) ListSubmissionsByExam(_ context.Context, examID string) ([]model.ExamSubmissionWithStudent, error) {
	var out []model.ExamSubmissionWithStudent
	for _, s := range f.submissions {
		if s.ExamID == examID {
			out = append(out, model.ExamSubmissionWithStudent{ExamSubmission: s})
		}
	}
	return out, nil
}

func (f *fakeExamRepo) DeleteSubmissionsByExam(_ context.Context, _ *sql.Tx, examID string) error {
	for id, s := range f.submissions {
		if s.ExamID == examID {
			delete(f.submissions, id)
		}
	}
	return nil
}

func (f *fakeExamRepo) DeleteSubmissionsByCourse(_ context.Context, _ *sql.Tx, courseID string) error {
	for id, s := range f.submissions {
		e, ok := f.exams[s.ExamID]
		if ok && e.CourseID == courseID {
			delete(f.submissions, id)
		}
	}
	return nil
}

type fakePaymentRepo struct {
	announcements map[string]model.PaymentAnnouncement
	submissions   map[string]model.PaymentSubmission
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		announcements: map[string]model.PaymentAnnouncement{},
		submissions:   map[string]model.PaymentSubmission{},
	}
}

func (f *fakePaymentRepo) CreateAnnouncement(_ context.Context, a *model.PaymentAnnouncement) error {
	f.announcements[a.ID] = *a
	return nil
}

func (f *fakePaymentRepo) FindAnnouncementByID(_ context.Context, id string) (*model.PaymentAnnouncement, error) {
	a, ok := f.announcements[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &a, nil
}

func (f *fakePaymentRepo) ListAnnouncements(_ context.Context) ([]model.PaymentAnnouncement, error) {
	var out []model.PaymentAnnouncement
	for _, a := range f.announcements {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakePaymentRepo) UpdateAnnouncement(_ context.Context, a *model.PaymentAnnouncement) error {
	if _, ok := f.announcements[a.ID]; !ok {
		return common.ErrNotFound
	}
	f.announcements[a.ID] = *a
	return nil
}

func (f *fakePaymentRepo) DeleteAnnouncement(_ context.Context, _ *sql.Tx, id string) error {
	if _, ok := f.announcements[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.announcements, id)
	return nil
}

func (f *fakePaymentRepo) CreateSubmission(_ context.Context, _ *sql.Tx, s *model.PaymentSubmission) error {
	for _, existing := range f.submissions {
		if existing.AnnouncementID == s.AnnouncementID && existing.StudentID == s.StudentID {
			return fmt.Errorf("payment already submitted for this announcement: %w", common.ErrConflict)
		}
	}
	f.submissions[s.ID] = *s
	return nil
}

func (f *fakePaymentRepo) UpdateSubmission(_ context.Context, _ *sql.Tx, s *model.PaymentSubmission) error {
	if _, ok := f.submissions[s.ID]; !ok {
		return common.ErrNotFound
	}
	f.submissions[s.ID] = *s
	return nil
}

func (f *fakePaymentRepo) FindSubmissionByID(_ context.Context, id string) (*model.PaymentSubmission, error) {
	s, ok := f.submissions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &s, nil
}

func (f *fakePaymentRepo) FindSubmissionByAnnouncementAndStudent(_ context.Context, announcementID, studentID string) (*model.PaymentSubmission, error) {
	for _, s := range f.submissions {
		if s.AnnouncementID == announcementID && s.StudentID == studentID {
			s := s
			return &s, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakePaymentRepo) ListSubmissionsByStudent(_ context.Context, studentID string) ([]model.PaymentSubmission, error) {
	var out []model.PaymentSubmission
	for _, s := range f.submissions {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) ListSubmissionsByAnnouncement(_ context.Context, announcementID string) ([]model.PaymentSubmissionWithStudent, error) {
	var out []model.PaymentSubmissionWithStudent
	for _, s := range f.submissions {
		if s.AnnouncementID == announcementID {
			out = append(out, model.PaymentSubmissionWithStudent{PaymentSubmission: s})
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) DeleteSubmissionsByAnnouncement(_ context.Context, _ *sql.Tx, announcementID string) error {
	for id, s := range f.submissions {
		if s.AnnouncementID == announcementID {
			delete(f.submissions, id)
		}
	}
	return nil
}

// testEnv wires the full service stack over the fakes.
type testEnv struct {
	users       *fakeUserRepo
	courses     *fakeCourseRepo
	weeks       *fakeWeekRepo
	materials   *fakeMaterialRepo
	assignments *fakeAssignmentRepo
	exams       *fakeExamRepo
	payments    *fakePaymentRepo
	guard       *authz.Guard

	catalog    *CatalogService
	assignment *AssignmentService
	exam       *ExamService
	finance    *FinanceService
	user       *UserService
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	courses := newFakeCourseRepo()
	weeks := newFakeWeekRepo()
	materials := newFakeMaterialRepo(weeks)
	assignments := newFakeAssignmentRepo(materials)
	exams := newFakeExamRepo()
	payments := newFakePaymentRepo()
	tx := fakeTransactor{}

	resolver := NewOwnershipResolver(users, courses, weeks, materials, exams, assignments)
	guard := authz.NewGuard(resolver)

	return &testEnv{
		users:       users,
		courses:     courses,
		weeks:       weeks,
		materials:   materials,
		assignments: assignments,
		exams:       exams,
		payments:    payments,
		guard:       guard,
		catalog:     NewCatalogService(users, courses, weeks, materials, exams, assignments, guard, tx),
		assignment:  NewAssignmentService(users, materials, assignments, guard, tx),
		exam:        NewExamService(users, courses, exams, nil, guard, tx),
		finance:     NewFinanceService(users, payments, guard, tx),
		user:        NewUserService(users, guard, tx),
	}
}

func (e *testEnv) addLecturer(username string) authz.Principal {
	id := uuid.NewString()
	e.users.users[id] = model.User{
		ID: id, Email: username + "@uni.edu", Username: username,
		Role: model.RoleLecturer, IsActive: true,
	}
	pid := uuid.NewString()
	e.users.lecturerProfiles[pid] = model.LecturerProfile{ID: pid, UserID: id}
	return authz.Principal{UserID: id, Role: model.RoleLecturer, Active: true}
}

func (e *testEnv) addStudent(username string) authz.Principal {
	id := uuid.NewString()
	e.users.users[id] = model.User{
		ID: id, Email: username + "@uni.edu", Username: username,
		Role: model.RoleStudent, IsActive: true,
	}
	pid := uuid.NewString()
	e.users.studentProfiles[pid] = model.StudentProfile{ID: pid, UserID: id, EnrollmentNumber: "EN-" + username}
	return authz.Principal{UserID: id, Role: model.RoleStudent, Active: true}
}

func (e *testEnv) addAdmin(username string) authz.Principal {
	id := uuid.NewString()
	e.users.users[id] = model.User{
		ID: id, Email: username + "@uni.edu", Username: username,
		Role: model.RoleAdmin, IsActive: true,
	}
	return authz.Principal{UserID: id, Role: model.RoleAdmin, Active: true}
}

func (e *testEnv) studentProfileID(p authz.Principal) string {
	profile, _ := e.users.StudentProfileByUserID(context.Background(), p.UserID)
	return profile.ID
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)
var _ repository.CourseRepository = (*fakeCourseRepo)(nil)
var _ repository.WeekRepository = (*fakeWeekRepo)(nil)
var _ repository.MaterialRepository = (*fakeMaterialRepo)(nil)
var _ repository.AssignmentSubmissionRepository = (*fakeAssignmentRepo)(nil)
var _ repository.ExamRepository = (*fakeExamRepo)(nil)
var _ repository.PaymentRepository = (*fakePaymentRepo)(nil)
