package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates a missing, invalid or revoked credential.
var ErrUnauthorized = errors.New("unauthorized")

// ErrOTPNotFound indicates no OTP exists for the email.
var ErrOTPNotFound = errors.New("otp not found")

// ErrOTPExpired indicates the stored OTP is past its expiry. Distinct from
// ErrOTPNotFound so the client can tell "request a new one" from "never existed".
var ErrOTPExpired = errors.New("otp expired")

// ErrOTPInvalid indicates the submitted code does not match the stored OTP.
var ErrOTPInvalid = errors.New("invalid otp")

// ErrSessionExpired indicates the session exists but is past its expiry.
var ErrSessionExpired = errors.New("session expired")

// ErrUpstreamUnavailable indicates a network/auth/config failure talking to Shopify.
// Callers decide whether this is fatal (login existence gate, registration) or a
// soft failure (enrichment during session validation).
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ErrEmailDispatch indicates the transactional email provider failed to accept the message.
var ErrEmailDispatch = errors.New("email dispatch failed")
