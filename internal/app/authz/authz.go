// Package authz decides, for every mutating operation, whether the acting
// principal may act on a target entity. The policy table is evaluated in
// order and the first matching rule decides; every denial carries a reason
// from the closed error taxonomy in internal/common.
package authz

import (
	"context"
	"fmt"

	"github.com/PAA-LMS/lms-backend/internal/common"
	"github.com/PAA-LMS/lms-backend/internal/domain/model"
)

// Principal is the authenticated actor attached to the request context by
// the auth middleware.
type Principal struct {
	UserID string
	Role   model.Role
	Active bool
}

type TargetKind string

const (
	TargetNone                 TargetKind = ""
	TargetUser                 TargetKind = "user"
	TargetCourse               TargetKind = "course"
	TargetWeek                 TargetKind = "course_week"
	TargetMaterial             TargetKind = "course_material"
	TargetExam                 TargetKind = "exam"
	TargetAssignmentSubmission TargetKind = "assignment_submission"
	TargetExamSubmission       TargetKind = "exam_submission"
)

// Target identifies the entity an action operates on. Actions without an
// entity (listings, creations not scoped to ownership) use a zero Target.
type Target struct {
	Kind TargetKind
	ID   string
}

type Action string

const (
	// Admin user administration.
	ActionAdministerUsers Action = "administer_users"
	ActionAdminDeleteUser Action = "admin_delete_user"

	// Lecturer actions gated on course ownership of the target.
	ActionManageCourse    Action = "manage_course"    // update/delete course, add weeks
	ActionManageWeek      Action = "manage_week"      // update/delete week, add materials
	ActionManageMaterial  Action = "manage_material"  // update/delete material
	ActionManageExam      Action = "manage_exam"      // update/delete/upload, list submissions
	ActionGradeSubmission Action = "grade_submission" // assignment or exam submission
	ActionListSubmissions Action = "list_submissions" // per-material listing
	ActionCreateCourse    Action = "create_course"    // lecturer role, no target yet

	// Student submission actions; row ownership is enforced by keying every
	// lookup on the acting student's own profile.
	ActionSubmitAssignment Action = "submit_assignment"
	ActionSubmitExam       Action = "submit_exam"
	ActionSubmitPayment    Action = "submit_payment"
	ActionUpdateOwnPayment Action = "update_own_payment"
	ActionViewOwnWork      Action = "view_own_work"

	// Payment administration is open to lecturers and admins alike; payment
	// announcements sit outside the course ownership chain.
	ActionManagePayments Action = "manage_payments"
	ActionVerifyPayment  Action = "verify_payment"

	// Catalog reads require any authenticated, active principal. Visibility
	// is not scoped to enrollment; no enrollment entity exists.
	ActionReadCatalog Action = "read_catalog"

	// Account self-service. Update is allowed for the account owner or any
	// lecturer; delete for lecturers. Intentionally permissive, retained
	// from the source policy pending product review.
	ActionUpdateUser Action = "update_user"
	ActionDeleteUser Action = "delete_user"
)

// CourseOwnerResolver walks the containment chain of a target up to the
// lecturer profile that owns the enclosing course.
type CourseOwnerResolver interface {
	ResolveCourseOwner(ctx context.Context, target Target) (*model.LecturerProfile, error)
}

type Guard struct {
	owners CourseOwnerResolver
}

func NewGuard(owners CourseOwnerResolver) *Guard {
	return &Guard{owners: owners}
}

// Authorize returns nil to allow, or a taxonomy error explaining the denial.
// Checks fail fast in a fixed order: authentication, account state, role,
// then ownership. Repeated calls with unchanged state return the same
// decision.
func (g *Guard) Authorize(ctx context.Context, p Principal, action Action, target Target) error {
	if p.UserID == "" {
		return common.ErrUnauthenticated
	}
	if !p.Active {
		return common.ErrAccountDisabled
	}

	switch action {
	case ActionAdministerUsers:
		return requireRole(p, model.RoleAdmin)

	case ActionAdminDeleteUser:
		if err := requireRole(p, model.RoleAdmin); err != nil {
			return err
		}
		if target.Kind == TargetUser && target.ID == p.UserID {
			return fmt.Errorf("cannot delete your own account: %w", common.ErrValidation)
		}
		return nil

	case ActionCreateCourse:
		return requireRole(p, model.RoleLecturer)

	case ActionManageCourse, ActionManageWeek, ActionManageMaterial, ActionManageExam,
		ActionGradeSubmission, ActionListSubmissions:
		if err := requireRole(p, model.RoleLecturer); err != nil {
			return err
		}
		return g.requireCourseOwnership(ctx, p, target)

	case ActionSubmitAssignment, ActionSubmitExam, ActionSubmitPayment,
		ActionUpdateOwnPayment, ActionViewOwnWork:
		return requireRole(p, model.RoleStudent)

	case ActionManagePayments, ActionVerifyPayment:
		return requireRole(p, model.RoleLecturer, model.RoleAdmin)

	case ActionReadCatalog:
		return nil // any authenticated, active principal

	case ActionUpdateUser:
		if p.Role == model.RoleLecturer {
			return nil
		}
		if target.Kind == TargetUser && target.ID == p.UserID {
			return nil
		}
		return fmt.Errorf("not authorized to update this user: %w", common.ErrForbidden)

	case ActionDeleteUser:
		return requireRole(p, model.RoleLecturer)
	}

	return fmt.Errorf("unknown action %q: %w", action, common.ErrForbidden)
}

func requireRole(p Principal, roles ...model.Role) error {
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return fmt.Errorf("role %q is not permitted to perform this action: %w", p.Role, common.ErrForbidden)
}

// requireCourseOwnership resolves the owning lecturer of the target and
// checks it is the acting principal. A mismatch is Forbidden, not NotFound:
// "doesn't exist" and "not yours" stay distinct.
func (g *Guard) requireCourseOwnership(ctx context.Context, p Principal, target Target) error {
	owner, err := g.owners.ResolveCourseOwner(ctx, target)
	if err != nil {
		return err
	}
	if owner.UserID != p.UserID {
		return fmt.Errorf("not the owner of the enclosing course: %w", common.ErrForbidden)
	}
	return nil
}
