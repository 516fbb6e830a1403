package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin" // Coaches/instructors
	RoleTrainee    Role = "trainee"
)

// UserStatus tracks whether an account is usable. Accounts are deactivated,
// never hard-deleted.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User represents any account in the system: super admin, admin (coach) or trainee.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Unique across all users
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	Status       UserStatus         `bson:"status" json:"status"`

	// --- Trainee-specific ---
	// The admin (coach) this trainee is assigned to. A trainee might not be
	// assigned immediately, hence the pointer.
	AssignedAdminID *primitive.ObjectID `bson:"assignedAdminId,omitempty" json:"assignedAdminId,omitempty"`
	// Weekly workout goal (number of workouts per week), optional.
	WeeklyGoal *int `bson:"weeklyGoal,omitempty" json:"weeklyGoal,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

func (u *User) IsTrainee() bool {
	return u.Role == RoleTrainee
}

// CanCoach reports whether the user may own classes, author templates and
// manage trainees (admins and super admins).
func (u *User) CanCoach() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// UserUpdate lists the fields a profile update may change. Nil fields are
// left untouched; this replaces raw document merges so an update can never
// accidentally clear a field it did not mention.
type UserUpdate struct {
	Name            *string             `json:"name,omitempty"`
	Status          *UserStatus         `json:"status,omitempty"`
	AssignedAdminID *primitive.ObjectID `json:"assignedAdminId,omitempty"`
	WeeklyGoal      *int                `json:"weeklyGoal,omitempty"`
}
