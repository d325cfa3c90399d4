package member

import "time"

// Role grants a member's level of access to a shared project.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// Profile maps a principal id to a lookup email so projects can be shared
// by address.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Membership links a principal to a project with a role.
type Membership struct {
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
