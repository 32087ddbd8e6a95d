package auth

import "learnhub/models"

// Principal is the authenticated caller. It is either Admin or Learner;
// callers branch with a type switch.
type Principal interface {
	isPrincipal()
}

// Admin is the configuration-defined administrator. It has no user row.
type Admin struct {
	Email string
}

// Learner is any user stored in the users table, whatever its role.
type Learner struct {
	UserID uint
	Email  string
	Role   string
}

func (Admin) isPrincipal()   {}
func (Learner) isPrincipal() {}

// AdminID is the synthetic identity carried by admin tokens.
const AdminID uint = 0

// LearnerID returns the user id for a Learner principal.
func LearnerID(p Principal) (uint, bool) {
	if l, ok := p.(Learner); ok {
		return l.UserID, true
	}
	return 0, false
}

// IsAdmin reports whether p is the admin principal.
func IsAdmin(p Principal) bool {
	_, ok := p.(Admin)
	return ok
}

// RoleOf returns the role string exposed to clients.
func RoleOf(p Principal) string {
	switch v := p.(type) {
	case Admin:
		return models.RoleAdmin
	case Learner:
		return v.Role
	default:
		return ""
	}
}
