package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent   RoleType = "student"
	RoleProfessor RoleType = "professor"
	RoleAdmin     RoleType = "admin"
)

// Roles lists every known role
var Roles = []RoleType{RoleStudent, RoleProfessor, RoleAdmin}

// IsValid reports whether r is one of the known roles
func (r RoleType) IsValid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts a raw string into a RoleType
func ParseRole(s string) (RoleType, bool) {
	r := RoleType(s)
	return r, r.IsValid()
}
