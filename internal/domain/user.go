package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleHost   Role = "host"
	RoleCohost Role = "cohost"
)

type User struct {
	ID           int64
	Email        string
	FirstName    string
	LastName     string
	PasswordHash *string // managed by the auth service, opaque here
	GithubID     *string
	IsHost       bool
	GrantCount   int // number of co-host grants currently held
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role is derived from ownership and grants, never persisted. Revoking a
// user's last co-host grant demotes them without any bookkeeping write.
func (u User) Role() Role {
	switch {
	case u.IsHost:
		return RoleHost
	case u.GrantCount > 0:
		return RoleCohost
	default:
		return RoleUser
	}
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}
