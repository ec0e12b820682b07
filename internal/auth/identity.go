package auth

import (
	"os"
	"strings"
)

// Role is the coarse permission level supplied by the identity provider.
type Role string

const (
	RoleGuest    Role = "guest"
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a role name to a Role. Unknown names become RoleGuest.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleTenant, RoleLandlord, RoleStaff, RoleAdmin:
		return r
	}
	return RoleGuest
}

// Identity is who is acting. The zero value is an anonymous guest.
type Identity struct {
	UserID string `json:"user_id" yaml:"user_id"`
	Role   Role   `json:"role" yaml:"role"`
	Name   string `json:"name" yaml:"name"`
}

// IsAdmin reports whether the identity has the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IsStaff reports whether the identity may drive the staff workflow.
// Admins are staff.
func (i Identity) IsStaff() bool {
	return i.Role == RoleStaff || i.Role == RoleAdmin
}

// DisplayName returns the name used to attribute edits.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.UserID != "" {
		return i.UserID
	}
	return "Unknown"
}

// IdentityFromEnv reads RENTAPP_USER_ID, RENTAPP_ROLE and RENTAPP_USER_NAME.
func IdentityFromEnv() Identity {
	id := Identity{
		UserID: os.Getenv("RENTAPP_USER_ID"),
		Role:   ParseRole(envOrDefault("RENTAPP_ROLE", string(RoleGuest))),
		Name:   os.Getenv("RENTAPP_USER_NAME"),
	}
	if id.UserID == "" {
		id.Role = RoleGuest
	}
	return id
}
