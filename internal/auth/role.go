package auth

// Role represents an access role
type Role string

// Access roles, strongest first
const (
	RoleMaster  Role = "master"
	RoleAdmin   Role = "admin"
	RoleGestao  Role = "gestao"
	RoleUsuario Role = "usuario"
)

// rolePriority orders roles for conflict resolution when an account
// carries more than one
var rolePriority = map[Role]int{
	RoleMaster:  4,
	RoleAdmin:   3,
	RoleGestao:  2,
	RoleUsuario: 1,
}

// Valid reports whether the role is a known role
func (r Role) Valid() bool {
	_, ok := rolePriority[r]
	return ok
}

// CanManage reports whether the role may modify indicators, values and
// organization records
func (r Role) CanManage() bool {
	return r == RoleMaster || r == RoleAdmin || r == RoleGestao
}

// IsAdmin reports whether the role may manage users and roles
func (r Role) IsAdmin() bool {
	return r == RoleMaster || r == RoleAdmin
}

// Strongest returns the highest-priority role in the list, falling back
// to usuario when the list is empty or carries only unknown roles
func Strongest(roles []Role) Role {
	best := RoleUsuario
	for _, r := range roles {
		if rolePriority[r] > rolePriority[best] {
			best = r
		}
	}
	return best
}
