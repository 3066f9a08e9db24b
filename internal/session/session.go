package session

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles that gate route subtrees and endpoints.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleTalent  Role = "TALENT"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleManager, RoleTalent}

// ParseRole maps a stored role string onto the enum. Matching ignores case.
func ParseRole(raw string) (Role, error) {
	candidate := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if candidate.Valid() {
		return candidate, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTalent:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Session is the client-held identity: bearer token plus username (email) and role.
type Session struct {
	Token    string `json:"jwtToken" yaml:"jwtToken"`
	Username string `json:"username" yaml:"username"`
	Role     Role   `json:"userRole" yaml:"userRole"`
}

// Authenticated reports whether all three fields are present.
func (s *Session) Authenticated() bool {
	if s == nil {
		return false
	}
	return strings.TrimSpace(s.Token) != "" && strings.TrimSpace(s.Username) != "" && s.Role.Valid()
}

// HasRole reports whether the session role is one of allowed.
func (s *Session) HasRole(allowed ...Role) bool {
	if s == nil {
		return false
	}
	for _, r := range allowed {
		if s.Role == r {
			return true
		}
	}
	return false
}
