// Package models defines the records persisted by the piedpiper API.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Email is the identity.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Image        string    `json:"image" db:"image"`
	WhatTheme    string    `json:"whatTheme" db:"what_theme"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// ProfileFields are the user attributes editable through the profile
// endpoints and cached on every session.
type ProfileFields struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Image     string `json:"image"`
	WhatTheme string `json:"whatTheme"`
}

// Profile returns the editable fields of the user.
func (u *User) Profile() ProfileFields {
	return ProfileFields{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Image:     u.Image,
		WhatTheme: u.WhatTheme,
	}
}

// DisplayName joins first and last name.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
