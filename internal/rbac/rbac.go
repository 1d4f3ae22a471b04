// Package rbac maps workspace roles to the actions they may perform on sites
// and pages.
package rbac

type Role string
type Action string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleOwner  Role = "owner"
)

const (
	ActionRead    Action = "read"
	ActionEdit    Action = "edit"
	ActionPublish Action = "publish"
	ActionManage  Action = "manage"
)

func Can(role Role, action Action) bool {
	switch role {
	case RoleOwner:
		return true
	case RoleEditor:
		return action == ActionRead || action == ActionEdit
	case RoleViewer:
		return action == ActionRead
	default:
		return false
	}
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleViewer, RoleEditor, RoleOwner:
		return Role(role)
	default:
		return RoleViewer
	}
}
