package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/AIWorkspace/internal/supabase"
)

// SupabaseIdentityRepository creates authentication identities through the
// Supabase admin API.
type SupabaseIdentityRepository struct {
	client *supabase.Client
}

// NewSupabaseIdentityRepository creates a SupabaseIdentityRepository on client.
func NewSupabaseIdentityRepository(client *supabase.Client) *SupabaseIdentityRepository {
	return &SupabaseIdentityRepository{client: client}
}

// CreateIdentity registers a confirmed identity for email and returns its id.
func (r *SupabaseIdentityRepository) CreateIdentity(ctx context.Context, email, password string, metadata map[string]any) (string, error) {
	u, err := r.client.CreateUser(ctx, supabase.AdminUserParams{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
		UserMetadata: metadata,
	})
	if err != nil {
		return "", fmt.Errorf("create auth user: %w", err)
	}
	return u.ID, nil
}
