package model

// Organizational roles, distinct from per-document permission levels.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Avatar       string `json:"avatar,omitempty"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"is_active"`
	MFAEnabled   bool   `json:"mfa_enabled"`
	Ctime        int64  `json:"ctime"`
	Mtime        int64  `json:"mtime"`
}

// UserSummary is the identity shape embedded in shares and returned by
// directory search.
type UserSummary struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Avatar     string `json:"avatar,omitempty"`
	IsActive   bool   `json:"is_active"`
	MFAEnabled bool   `json:"mfa_enabled"`
	Ctime      int64  `json:"ctime"`
	Mtime      int64  `json:"mtime"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Avatar:     u.Avatar,
		IsActive:   u.IsActive,
		MFAEnabled: u.MFAEnabled,
		Ctime:      u.Ctime,
		Mtime:      u.Mtime,
	}
}
