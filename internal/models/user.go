package models

import (
	"strings"
	"time"
)

// User represents an application user (mapped from Google identity claims)
type User struct {
	ID                int64     `db:"id" json:"id"`
	GoogleID          string    `db:"google_id" json:"googleId"` // OAuth subject
	Email             string    `db:"email" json:"email"`
	FirstName         string    `db:"first_name" json:"firstName"`
	LastName          string    `db:"last_name" json:"lastName"`
	Phone             *string   `db:"phone" json:"phone"`
	GroupName         *string   `db:"group_name" json:"groupName"`
	AvatarURL         string    `db:"avatar_url" json:"avatarUrl"`
	IsProfileComplete bool      `db:"is_profile_complete" json:"isProfileComplete"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// FullName joins first and last name, dropping the separator when either is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SplitName splits a display name on the first whitespace boundary into
// first/last parts. A missing name yields two empty strings.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, " ", 2)
	first = parts[0]
	if len(parts) == 2 {
		last = strings.TrimSpace(parts[1])
	}
	return first, last
}
