package authz

// Roles carried in service tokens.
const (
	RoleService = "service"
	RoleAdmin   = "admin"
)

func IsKnown(role string) bool {
	return role == RoleService || role == RoleAdmin
}
