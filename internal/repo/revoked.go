package repo

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/content_backend/internal/logging"
	"github.com/Skotchmaster/content_backend/internal/models"
)

// PruneExpired deletes denylist rows whose token has expired on its own.
func (r *GormRepo) PruneExpired(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}

// IsRevoked prunes first and then looks the id up. A failed prune is logged
// and the lookup still runs. An empty id is always reported as revoked.
func (r *GormRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return true, nil
	}

	l := logging.FromContext(ctx).With("repo", "revoked_tokens")
	if n, err := r.PruneExpired(ctx); err != nil {
		l.Warn("revocation_prune_failed", "error", err)
	} else if n > 0 {
		l.Debug("revocation_pruned", "rows", n)
	}

	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Revoke is idempotent: a second call for the same jti inserts nothing and
// still succeeds.
func (r *GormRepo) Revoke(ctx context.Context, jti string, userID uint, kind string, expiresAt time.Time) error {
	rec := models.RevokedToken{
		JTI:       jti,
		UserID:    userID,
		TokenType: kind,
		RevokedAt: time.Now().UTC(),
		ExpiresAt: expiresAt.UTC(),
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec).Error
	if isUniqueViolation(err) {
		return nil
	}
	return err
}
