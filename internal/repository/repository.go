// Package repository provides the persistence implementations used by the
// services: PostgREST-backed repositories over a shared supabase.Client,
// PostgreSQL repositories over *sql.DB for direct database deployments,
// and the identity adapter for the auth admin API.
package repository

import (
	"database/sql"
	"fmt"

	"github.com/atinyakov/AIWorkspace/internal/common"
)

// upstreamError marks err as a store failure while keeping it matchable.
func upstreamError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrUpstream, err)
}

// nullableString converts a nullable column into an optional value.
func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
