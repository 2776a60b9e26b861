// Package models defines the records exchanged with the remote store:
// employee accounts, tasks and meeting transcripts.
package models

// DefaultRole is assigned to accounts created without an explicit role.
const DefaultRole = "EMPLOYEE"

// Account is a row of the employee table.
type Account struct {
	// ID is the store-assigned identifier.
	ID ID `json:"id,omitempty"`
	// Name is the display name of the employee.
	Name string `json:"name"`
	// Email is the unique login key.
	Email string `json:"email"`
	// Password holds either a bcrypt hash or, for rows that predate hashing,
	// the plaintext password.
	Password string `json:"password"`
	// Role is a free-form role name.
	Role string `json:"role"`
	// Department is optional.
	Department *string `json:"department"`
	// SupabaseUserID references the identity record in the auth service.
	SupabaseUserID string `json:"supabase_user_id"`
	// CreatedAt is set by the backend on insert.
	CreatedAt Timestamp `json:"createdAt"`
}

// PublicAccount is the response form of an Account, without credential
// material.
type PublicAccount struct {
	ID             ID        `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Department     *string   `json:"department"`
	SupabaseUserID string    `json:"supabase_user_id"`
	CreatedAt      Timestamp `json:"createdAt"`
}

// Public strips the credential field.
func (a Account) Public() PublicAccount {
	return PublicAccount{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		Role:           a.Role,
		Department:     a.Department,
		SupabaseUserID: a.SupabaseUserID,
		CreatedAt:      a.CreatedAt,
	}
}
