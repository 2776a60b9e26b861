package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// legacyCredentialsQuery counts accounts whose password is not a bcrypt
// hash yet. Those rows are upgraded on the owner's next successful login.
const legacyCredentialsQuery = `SELECT COUNT(*) FROM employee WHERE password NOT LIKE '$2%'`

// StartLegacyCredentialAudit periodically logs how many accounts still
// hold a plaintext credential. It stops when ctx is done.
func StartLegacyCredentialAudit(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var count int64
				if err := db.QueryRowContext(ctx, legacyCredentialsQuery).Scan(&count); err != nil {
					log.Error("failed to count legacy credentials", zap.Error(err))
					continue
				}
				if count > 0 {
					log.Warn("accounts with legacy plaintext credentials", zap.Int64("count", count))
				}
			}
		}
	}()
}
