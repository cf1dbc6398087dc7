package model

import "github.com/google/uuid"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleDelivery Role = "delivery"
	RoleAdmin    Role = "admin"
)

// Claims identify the caller of an authenticated request.
type Claims struct {
	Subject  uuid.UUID
	Email    string
	Role     Role
	Verified bool
}

type PasswordManager interface {
	Hash(plain string) (string, error)
	Check(hash, plain string) bool
}

type TokenManager interface {
	Issue(claims Claims) (string, error)
	// Verify returns ErrUnauthorized for malformed, expired or forged tokens.
	Verify(token string) (Claims, error)
}

// Session is what a successful sign-up, login or verification hands back.
type Session[T any] struct {
	Token   string `json:"token"`
	Profile T      `json:"profile"`
}
