package domain

// Role is the authorization role carried by a session.
type Role string

const (
	// RoleAny matches every authenticated session.
	RoleAny Role = ""

	RoleAdmin   Role = "ADMIN"
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleGuide   Role = "GUIDE"
)

// Valid reports whether r is one of the roles a user record may hold.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleManager, RoleGuide:
		return true
	}
	return false
}

// SessionRole maps a stored role to the role placed in a session. Only
// ADMIN survives; staff roles are treated as plain users.
func (r Role) SessionRole() Role {
	if r == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Session is the resolved identity of the caller for one request.
// A nil *Session means the caller is anonymous.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   Role   `json:"role"`
}

// IsAdmin reports whether s is a non-nil ADMIN session.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
