package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/farmdirect/farmdirect-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UserRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Principal identifies the authenticated caller. Services take it as an
// explicit argument so authorization decisions are visible at the call site.
type Principal struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == enums.UserRoleAdmin
}

// IsFarmer reports whether the principal carries the farmer role.
func (p Principal) IsFarmer() bool {
	return p.Role == enums.UserRoleFarmer
}

// IsCustomer reports whether the principal carries the customer role.
func (p Principal) IsCustomer() bool {
	return p.Role == enums.UserRoleCustomer
}
