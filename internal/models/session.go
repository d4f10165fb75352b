package models

import "time"

// Session binds an issued bearer token to the IP address and user agent
// observed at login. Email, IP and UserAgent never change after creation;
// only the cached profile and Valid are mutable.
type Session struct {
	Token     string    `json:"-"`
	Email     string    `json:"email"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"useragent"`
	Valid     bool      `json:"valid"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Image     string    `json:"image"`
	WhatTheme string    `json:"whatTheme"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile returns the cached profile copy.
func (s *Session) Profile() ProfileFields {
	return ProfileFields{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Image:     s.Image,
		WhatTheme: s.WhatTheme,
	}
}

// Matches reports whether the session is valid and bound to ip and
// userAgent. Both comparisons are exact.
func (s *Session) Matches(ip, userAgent string) bool {
	return s.Valid && s.IP == ip && s.UserAgent == userAgent
}
