package supabase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/atinyakov/AIWorkspace/internal/common"
	"github.com/google/uuid"
	auth "github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"
)

// AdminUserParams describes an identity to create.
type AdminUserParams struct {
	Email        string
	Password     string
	EmailConfirm bool
	UserMetadata map[string]any
}

// User is the identity record returned by the auth service.
type User struct {
	ID           string
	Email        string
	UserMetadata map[string]any
}

// CreateUser creates an identity through the admin API. The call is bounded
// by the admin timeout.
func (c *Client) CreateUser(ctx context.Context, params AdminUserParams) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, c.adminTimeout)
	defer cancel()

	if params.UserMetadata == nil {
		params.UserMetadata = map[string]any{}
	}
	password := params.Password

	admin := auth.New("", c.apiKey).
		WithCustomAuthURL(c.baseURL + authPath).
		WithToken(c.apiKey).
		WithClient(http.Client{Transport: c.bind(ctx)})

	resp, err := admin.AdminCreateUser(types.AdminCreateUserRequest{
		Email:        params.Email,
		Password:     &password,
		EmailConfirm: params.EmailConfirm,
		UserMetadata: params.UserMetadata,
	})
	if err != nil {
		return nil, upstream("create auth user", err)
	}
	if resp.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: auth response has no user id", common.ErrUpstream)
	}

	return &User{
		ID:           resp.ID.String(),
		Email:        resp.Email,
		UserMetadata: resp.UserMetadata,
	}, nil
}
