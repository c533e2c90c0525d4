package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

const jwtClaimStaffID = "staff_id"

// GetStaffIDFromContext extracts the authenticated staff member's id from
// the claims stored by Authenticate.
func GetStaffIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(staffContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errors.New("staff claims not found in context or invalid type")
	}

	claim, ok := claims[jwtClaimStaffID]
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", jwtClaimStaffID)
	}

	idFloat, ok := claim.(float64)
	if !ok {
		return 0, fmt.Errorf("invalid type for '%s' claim: expected number, got %T", jwtClaimStaffID, claim)
	}
	if idFloat != float64(int(idFloat)) || int(idFloat) <= 0 {
		return 0, fmt.Errorf("invalid staff id value in '%s' claim: %f", jwtClaimStaffID, idFloat)
	}

	return int(idFloat), nil
}
