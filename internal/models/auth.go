package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminRole is the default role stored for admin_users rows.
const AdminRole = "admin"

// AdminUser is a membership row granting access to the back office.
type AdminUser struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AccessClaims is the payload of an access token issued by the auth provider.
// The user id travels in the registered subject claim.
type AccessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AdminSession describes the authenticated administrator of a request.
type AdminSession struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
