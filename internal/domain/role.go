package domain

// Role enumerates the fixed role catalog.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleUser    Role = "User"
)

// AllRoles lists every role the registry must hold after any registration.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleUser}
}

// Valid reports whether r belongs to the catalog.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}
