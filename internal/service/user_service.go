package service

import (
	"context"
	"errors"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrTraineeNotManaged = errors.New("trainee is not assigned to this admin")
	ErrNotAnAdmin        = errors.New("user is not an admin")
)

// UserService manages accounts and the admin/trainee roster. Every query is
// scoped by the caller's role: restricted admins only ever see the trainees
// assigned to them, trainees only ever see themselves.
type UserService interface {
	CreateUser(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, name, email, password string, role domain.Role, assignedAdminID *primitive.ObjectID) (*domain.User, error)
	GetUser(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, userID primitive.ObjectID) (*domain.User, error)
	ListTrainees(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role) ([]domain.User, error)
	ListAdmins(ctx context.Context, callerRole domain.Role) ([]domain.User, error)
	UpdateUser(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, userID primitive.ObjectID, update domain.UserUpdate) (*domain.User, error)
	AssignTraineeToAdmin(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID, adminID primitive.ObjectID) error
	Deactivate(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, userID primitive.ObjectID) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// CreateUser lets an admin or super admin provision an account. Admins may
// only create trainees, which land on their own roster; super admins may
// create admins and trainees and pick the assigned admin freely.
func (s *userService) CreateUser(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, name, email, password string, role domain.Role, assignedAdminID *primitive.ObjectID) (*domain.User, error) {
	// 1. Role checks: only coaching roles create accounts, and only a super
	// admin may create another admin.
	if callerRole != domain.RoleAdmin && callerRole != domain.RoleSuperAdmin {
		return nil, ErrNotAuthorized
	}
	if role != domain.RoleTrainee && callerRole != domain.RoleSuperAdmin {
		return nil, ErrNotAuthorized
	}
	if name == "" || email == "" || password == "" {
		return nil, ErrValidation
	}
	if role != domain.RoleSuperAdmin && role != domain.RoleAdmin && role != domain.RoleTrainee {
		return nil, ErrValidation
	}

	// 2. A restricted admin's new trainee is always their own.
	if role == domain.RoleTrainee && callerRole == domain.RoleAdmin {
		assignedAdminID = &callerID
	}

	// 3. The assigned admin, when set, must be a coaching role.
	if assignedAdminID != nil && *assignedAdminID != callerID {
		admin, err := s.userRepo.GetByID(ctx, *assignedAdminID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if !admin.CanCoach() {
			return nil, ErrNotAnAdmin
		}
	}

	// 4. Duplicate email check, then insert.
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Status:       domain.UserStatusActive,
	}
	if role == domain.RoleTrainee {
		user.AssignedAdminID = assignedAdminID
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	user.ID = userID
	user.PasswordHash = ""
	return user, nil
}

// GetUser retrieves one account, scoped to the caller.
func (s *userService) GetUser(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Self-access is always fine; otherwise the caller must manage the user.
	if callerID != user.ID {
		if user.IsTrainee() {
			if !domain.CanManageTrainee(callerRole, callerID, user) {
				return nil, ErrNotAuthorized
			}
		} else if callerRole != domain.RoleSuperAdmin {
			return nil, ErrNotAuthorized
		}
	}

	user.PasswordHash = ""
	return user, nil
}

// ListTrainees returns the caller's roster. A restricted admin gets the
// trainees assigned to them; an out-of-scope roster is simply empty, never
// an error.
func (s *userService) ListTrainees(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role) ([]domain.User, error) {
	var trainees []domain.User
	var err error

	switch callerRole {
	case domain.RoleSuperAdmin:
		trainees, err = s.userRepo.GetByRole(ctx, domain.RoleTrainee)
	case domain.RoleAdmin:
		trainees, err = s.userRepo.GetTraineesByAdminID(ctx, callerID)
	default:
		return []domain.User{}, nil
	}
	if err != nil {
		return nil, err
	}

	for i := range trainees {
		trainees[i].PasswordHash = ""
	}
	return trainees, nil
}

// ListAdmins returns all coaching accounts. Super admin only; everyone else
// gets an empty list.
func (s *userService) ListAdmins(ctx context.Context, callerRole domain.Role) ([]domain.User, error) {
	if callerRole != domain.RoleSuperAdmin {
		return []domain.User{}, nil
	}
	admins, err := s.userRepo.GetByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	for i := range admins {
		admins[i].PasswordHash = ""
	}
	return admins, nil
}

// UpdateUser applies a partial profile patch. Ownership is re-validated here
// even though the caller usually arrived via a scoped query.
func (s *userService) UpdateUser(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, userID primitive.ObjectID, update domain.UserUpdate) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if callerID != user.ID {
		if user.IsTrainee() {
			if !domain.CanManageTrainee(callerRole, callerID, user) {
				return nil, ErrNotAuthorized
			}
		} else if callerRole != domain.RoleSuperAdmin {
			return nil, ErrNotAuthorized
		}
	}

	// Reassignment and status changes are coaching operations; a trainee
	// editing their own profile cannot touch them.
	if callerRole == domain.RoleTrainee && (update.AssignedAdminID != nil || update.Status != nil) {
		return nil, ErrNotAuthorized
	}
	if update.WeeklyGoal != nil && *update.WeeklyGoal <= 0 {
		return nil, ErrValidation
	}

	if err := s.userRepo.Update(ctx, userID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updated, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated.PasswordHash = ""
	return updated, nil
}

// AssignTraineeToAdmin moves a trainee onto an admin's roster. Super admins
// may reassign anyone; a restricted admin may only claim unassigned trainees
// for themselves.
func (s *userService) AssignTraineeToAdmin(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID, adminID primitive.ObjectID) error {
	if callerRole != domain.RoleAdmin && callerRole != domain.RoleSuperAdmin {
		return ErrNotAuthorized
	}
	if callerRole == domain.RoleAdmin && adminID != callerID {
		return ErrNotAuthorized
	}

	trainee, err := s.userRepo.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !trainee.IsTrainee() {
		return ErrValidation
	}
	if callerRole == domain.RoleAdmin && trainee.AssignedAdminID != nil && *trainee.AssignedAdminID != callerID {
		return ErrTraineeNotManaged
	}

	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !admin.CanCoach() {
		return ErrNotAnAdmin
	}

	return s.userRepo.Update(ctx, traineeID, domain.UserUpdate{AssignedAdminID: &adminID})
}

// Deactivate sets an account inactive. Accounts are never hard-deleted.
func (s *userService) Deactivate(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, userID primitive.ObjectID) error {
	status := domain.UserStatusInactive
	_, err := s.UpdateUser(ctx, callerID, callerRole, userID, domain.UserUpdate{Status: &status})
	return err
}
