package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartExpiredSessionCleaner removes the stored session once its token
// has expired, checking every interval until ctx is cancelled.
func StartExpiredSessionCleaner(
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
				res, err := db.ExecContext(ctx, `
                    DELETE FROM owner_session
                     WHERE expires_at > 0
                       AND expires_at <= ?
                `, time.Now().Unix())
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Error("failed to clean expired session", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned expired session", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
