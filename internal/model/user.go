package model

import "time"

// User represents an operator account in the `users` table.  Every
// user belongs to exactly one company; the company id is embedded in
// issued access tokens and scopes all data access.
//
// Fields:
//  ID           – primary key identifier.
//  CompanyID    – company (tenant) the user works for.
//  Name         – display name, included in the token payload.
//  Email        – unique login email.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (e.g. ADMIN or STAFF).
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.user_id
	CompanyID    uint64    // users.company_id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}

// RefreshToken models a row in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token value is stored; the raw token goes back
// to the client once and is never persisted.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
