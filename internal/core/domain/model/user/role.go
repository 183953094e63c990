package user

import (
	"fmt"
	"strings"

	"parceltrack/internal/pkg/errs"
)

// Role decides which lifecycle commands a caller may issue.
type Role int

const (
	UnknownRole Role = iota
	Customer
	Agent
	Admin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole: "unknown",
		Customer:    "customer",
		Agent:       "agent",
		Admin:       "admin",
	}
}

// ParseRole maps the wire name (as carried in tokens and the users table) to a Role.
func ParseRole(s string) (Role, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for role, name := range getRoleStrings() {
		if role != UnknownRole && name == needle {
			return role, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

func (r Role) Validate() error {
	if r == UnknownRole {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}
