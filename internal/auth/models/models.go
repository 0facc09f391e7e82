package models

import (
	"strings"
	"time"
)

// Role is the official capacity a user signs in as.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleSurveyor      Role = "surveyor"
	RoleValuer        Role = "valuer"
	RoleRegistrar     Role = "registrar"
)

// RoleOption describes a role on the sign-in form.
type RoleOption struct {
	Value       Role   `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var roleOptions = []RoleOption{
	{RoleAdministrator, "Administrator", "System administration and oversight"},
	{RoleSurveyor, "Licensed Surveyor", "Land survey and measurement verification"},
	{RoleValuer, "Chief Government Valuer", "Property valuation and assessment"},
	{RoleRegistrar, "Registrar of Titles", "Final title registration and approval"},
}

// Roles returns the sign-in role choices in display order.
func Roles() []RoleOption {
	out := make([]RoleOption, len(roleOptions))
	copy(out, roleOptions)
	return out
}

// ParseRole accepts a role value in any case. ok is false for anything
// outside the enumeration.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, opt := range roleOptions {
		if opt.Value == r {
			return r, true
		}
	}
	return "", false
}

// Label returns the display name of the role.
func (r Role) Label() string {
	for _, opt := range roleOptions {
		if opt.Value == r {
			return opt.Label
		}
	}
	return string(r)
}

// LoginRequest is the sign-in form.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Session is the result of a successful sign-in. It is not a credential:
// nothing is issued or stored and any later request may claim any role.
type Session struct {
	Email           string    `json:"email"`
	DisplayName     string    `json:"display_name"`
	Role            Role      `json:"role"`
	RoleLabel       string    `json:"role_label"`
	AuthenticatedAt time.Time `json:"authenticated_at"`
}
