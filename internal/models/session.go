package models

import "time"

// Session mirrors a row of the sessions table.
type Session struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Token     string    `db:"token"`
	Revoked   bool      `db:"revoked"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// OTP mirrors a row of the otp table. No uniqueness constraint on email;
// stale rows are shadowed by creation-time ordering and swept on verify.
type OTP struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	CodeHash  string    `db:"code_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
