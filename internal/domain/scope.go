package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthorizeScope decides whether a caller may touch a resource owned by
// resourceOwnerID. Super admins bypass every ownership restriction; admins
// and trainees only reach records they own directly (class instructor,
// assignment creator, the trainee's own rows).
//
// Every multi-record query and every cross-boundary mutation goes through
// this predicate rather than re-implementing the comparison per operation.
func AuthorizeScope(callerRole Role, callerID, resourceOwnerID primitive.ObjectID) bool {
	if callerRole == RoleSuperAdmin {
		return true
	}
	return callerID == resourceOwnerID
}

// CanManageTrainee decides whether a caller may act on a trainee-scoped
// resource (assign workouts, view the roster entry). The comparison is
// against the trainee's assigned admin, not the trainee's own id.
func CanManageTrainee(callerRole Role, callerID primitive.ObjectID, trainee *User) bool {
	if trainee == nil {
		return false
	}
	switch callerRole {
	case RoleSuperAdmin:
		return true
	case RoleAdmin:
		return trainee.AssignedAdminID != nil && *trainee.AssignedAdminID == callerID
	case RoleTrainee:
		// Trainees only ever see their own records.
		return callerID == trainee.ID
	}
	return false
}
