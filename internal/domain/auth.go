package domain

// Role is the closed set of roles a principal can hold.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Valid reports whether the role is one the system issues.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff:
		return true
	}
	return false
}
