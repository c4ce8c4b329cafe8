package domain

import "time"

// Session is a bearer credential for a User. A session is valid iff it is not
// revoked and now < ExpiresAt. Expiry is checked by the auth flow, not by the
// store; revocation is terminal.
type Session struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Token     string    `json:"-"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// OTP is an ephemeral email-ownership credential. Only the bcrypt hash of the
// 6-digit code is stored; multiple rows may exist per email and lookup takes
// the latest by creation time.
type OTP struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CodeHash  string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the OTP is past its expiry at the given instant.
func (o OTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
