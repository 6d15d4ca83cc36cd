package models

// Role is a named set of granted scopes. Roles are static and seeded at build
// time; they are not editable at runtime.
type Role struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	ScopeInviteGet    = "workspace.invite.get"
	ScopeInviteCreate = "workspace.invite.create"
	ScopeInviteUpdate = "workspace.invite.update"
	ScopeInviteDelete = "workspace.invite.delete"
	ScopeUserGet      = "user.get"
	ScopeUserUpdate   = "user.update"
)

// Roles is the static role -> scope table.
var Roles = map[string]Role{
	RoleAdmin: {
		Name: RoleAdmin,
		Scopes: []string{
			ScopeInviteGet,
			ScopeInviteCreate,
			ScopeInviteUpdate,
			ScopeInviteDelete,
			ScopeUserGet,
			ScopeUserUpdate,
		},
	},
	RoleUser: {
		Name: RoleUser,
		Scopes: []string{
			ScopeUserGet,
			ScopeUserUpdate,
		},
	},
}

// ValidRole reports whether name is part of the role enumeration.
func ValidRole(name string) bool {
	_, ok := Roles[name]
	return ok
}

// RoleGrants reports whether the named role grants the given scope.
func RoleGrants(name, scope string) bool {
	role, ok := Roles[name]
	if !ok {
		return false
	}
	for _, s := range role.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
