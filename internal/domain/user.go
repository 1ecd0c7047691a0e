package domain

import "strings"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func (r Role) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Admin"
	case RoleAdmin:
		return "Admin"
	case RoleUser:
		return "User"
	default:
		return string(r)
	}
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	ID                 int        `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	FullName           string     `json:"full_name"`
	Phone              string     `json:"phone"`
	Department         string     `json:"department"`
	Role               Role       `json:"role"`
	Status             UserStatus `json:"status"`
	MustChangePassword bool       `json:"must_change_password"`
	CreatedAt          string     `json:"created_at"`
	LastLogin          string     `json:"last_login"`
	CreatedBy          string     `json:"created_by"`
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.Username
}

// Initials returns up to two uppercase initials for avatar badges.
func (u User) Initials() string {
	name := strings.TrimSpace(u.DisplayName())
	if name == "" {
		return "?"
	}

	words := strings.Fields(name)
	if len(words) >= 2 {
		first := []rune(words[0])
		second := []rune(words[1])
		return strings.ToUpper(string(first[:1]) + string(second[:1]))
	}
	runes := []rune(name)
	if len(runes) == 1 {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(string(runes[:2]))
}

// CanManage reports whether an actor with role r may edit or delete the
// target user. Admins only manage regular users; super admins manage
// anyone.
func (r Role) CanManage(target User) bool {
	switch r {
	case RoleSuperAdmin:
		return true
	case RoleAdmin:
		return target.Role == RoleUser
	default:
		return false
	}
}

type UserStats struct {
	TotalUsers  int `json:"total_users"`
	ActiveUsers int `json:"active_users"`
	AdminUsers  int `json:"admin_users"`
	NewUsers    int `json:"new_users"`
}
