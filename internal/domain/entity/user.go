// Package entity contains the core business objects of the project.
package entity

import "time"

// User is a registered account. Email is the login identifier and is unique
// across all users.
type User struct {
	ID           string    // Store-assigned identifier.
	Name         string    // Display name given at signup.
	Email        string    // Login identifier, compared by exact equality.
	PasswordHash string    // bcrypt hash; the plaintext is never kept.
	CreatedAt    time.Time // Assigned by the store on insert.
}
