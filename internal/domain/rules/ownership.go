package rules

import (
	"errors"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
)

// ErrForbidden is returned when a caller is not the owner of the entity it
// tries to mutate. Mutations must fetch the entity fresh, surface their own
// not-found error first, then apply this check before any write.
var ErrForbidden = errors.New("forbidden")

// RequireOwner fails closed: any mismatch, including zero ids, is rejected.
func RequireOwner(ownerUserID, callerUserID int64) error {
	if ownerUserID <= 0 || callerUserID <= 0 || ownerUserID != callerUserID {
		return ErrForbidden
	}
	return nil
}

// IsStaff reports whether a role carries the administrative override that
// lets agents and admins read entities they do not own.
func IsStaff(role string) bool {
	switch enums.Role(role) {
	case enums.RoleAgent, enums.RoleAdmin:
		return true
	}
	return false
}
