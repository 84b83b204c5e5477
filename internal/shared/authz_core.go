package shared

// Roles issued by the backend's /api/auth/me/ endpoint.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleViewer = "viewer"
)

// AdminRoles may manage organisation structure and read the audit trail.
func AdminRoles() []string {
	return []string{RoleAdmin}
}

// EditorRoles may create and modify letters, receivers and products.
func EditorRoles() []string {
	return []string{RoleAdmin, RoleStaff}
}

// AllRoles lists every role allowed past the auth gate.
func AllRoles() []string {
	return []string{RoleAdmin, RoleStaff, RoleViewer}
}
