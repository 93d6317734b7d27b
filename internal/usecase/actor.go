package usecase

import (
	"context"
	"errors"

	"clinicdesk/internal/delivery/http/middleware"

	"github.com/google/uuid"
)

var (
	ErrNotAuthenticated = errors.New("user not found in context")
	ErrRoleForbidden    = errors.New("role not permitted for this action")
)

// requireRole resolves the acting user from the request context and checks
// their role against the allowed set. Role checks live here, below the HTTP
// layer, so that calling a usecase directly cannot bypass them.
func requireRole(ctx context.Context, allowedRoleIDs ...int) (uuid.UUID, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, ErrNotAuthenticated
	}
	roleID, ok := middleware.GetRoleIDFromContext(ctx)
	if !ok {
		return uuid.Nil, ErrNotAuthenticated
	}
	for _, allowed := range allowedRoleIDs {
		if roleID == allowed {
			return userID, nil
		}
	}
	return uuid.Nil, ErrRoleForbidden
}
