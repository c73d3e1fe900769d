package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
	"github.com/joachimaross/quemiai-sub000/internal/infrastructure/persistence/models"
)

// GormConnectionRepository implements ConnectionRepository using GORM
type GormConnectionRepository struct {
	db *gorm.DB
}

// NewGormConnectionRepository creates a new GormConnectionRepository
func NewGormConnectionRepository(db *gorm.DB) *GormConnectionRepository {
	return &GormConnectionRepository{db: db}
}

// Upsert inserts the connection or replaces credentials, profile fields and
// metadata of the existing row for the same (user, platform) pair. Conflict
// resolution happens on the unique index so concurrent upserts serialize in
// the database rather than racing a read-then-write.
func (r *GormConnectionRepository) Upsert(ctx context.Context, conn *social.PlatformConnection) (*social.PlatformConnection, error) {
	model := models.PlatformConnectionModelFromDomain(conn)

	assignments := clause.AssignmentColumns([]string{
		"platform_user_id",
		"platform_username",
		"access_token",
		"token_expires_at",
		"metadata",
		"is_active",
		"updated_at",
	})
	// Platforms that rotate only access tokens send no refresh token on
	// reconnect; the stored refresh token must survive such an upsert.
	assignments = append(assignments, clause.Assignment{
		Column: clause.Column{Name: "refresh_token"},
		Value:  gorm.Expr("CASE WHEN excluded.refresh_token = '' THEN platform_connections.refresh_token ELSE excluded.refresh_token END"),
	})

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: assignments,
	}).Create(model).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the persisted row, including the original
	// ID and created_at when the insert hit an existing row.
	var persisted models.PlatformConnectionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND platform = ?", conn.UserID, conn.Platform).
		First(&persisted).Error; err != nil {
		return nil, err
	}
	return persisted.ToDomain(), nil
}

// Deactivate marks the active connection inactive
func (r *GormConnectionRepository) Deactivate(ctx context.Context, userID uuid.UUID, platform social.Platform) error {
	result := r.db.WithContext(ctx).
		Model(&models.PlatformConnectionModel{}).
		Where("user_id = ? AND platform = ? AND is_active = ?", userID, platform, true).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return social.ErrConnectionNotFound
	}
	return nil
}

// FindActive returns the user's active connections, optionally filtered by platform
func (r *GormConnectionRepository) FindActive(ctx context.Context, userID uuid.UUID, platforms []social.Platform) ([]*social.PlatformConnection, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true)
	if len(platforms) > 0 {
		query = query.Where("platform IN ?", platforms)
	}

	var connectionModels []models.PlatformConnectionModel
	if err := query.Order("platform ASC").Find(&connectionModels).Error; err != nil {
		return nil, err
	}
	return toDomainConnections(connectionModels), nil
}

// FindAll returns every connection for the user, active or not
func (r *GormConnectionRepository) FindAll(ctx context.Context, userID uuid.UUID) ([]*social.PlatformConnection, error) {
	var connectionModels []models.PlatformConnectionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("platform ASC").
		Find(&connectionModels).Error; err != nil {
		return nil, err
	}
	return toDomainConnections(connectionModels), nil
}

// FindExpiring returns active connections whose token expires before the
// given instant and that still hold a refresh token
func (r *GormConnectionRepository) FindExpiring(ctx context.Context, before time.Time) ([]*social.PlatformConnection, error) {
	var connectionModels []models.PlatformConnectionModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND refresh_token <> '' AND token_expires_at IS NOT NULL AND token_expires_at < ?", true, before).
		Order("token_expires_at ASC").
		Find(&connectionModels).Error; err != nil {
		return nil, err
	}
	return toDomainConnections(connectionModels), nil
}

// UpdateTokens persists refreshed credentials for an existing connection
func (r *GormConnectionRepository) UpdateTokens(ctx context.Context, conn *social.PlatformConnection) error {
	result := r.db.WithContext(ctx).
		Model(&models.PlatformConnectionModel{}).
		Where("id = ?", conn.ID).
		Updates(map[string]any{
			"access_token":     conn.AccessToken,
			"refresh_token":    conn.RefreshToken,
			"token_expires_at": conn.TokenExpiresAt,
			"updated_at":       conn.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return social.ErrConnectionNotFound
	}
	return nil
}

func toDomainConnections(connectionModels []models.PlatformConnectionModel) []*social.PlatformConnection {
	connections := make([]*social.PlatformConnection, len(connectionModels))
	for i := range connectionModels {
		connections[i] = connectionModels[i].ToDomain()
	}
	return connections
}

// Ensure GormConnectionRepository implements ConnectionRepository interface
var _ social.ConnectionRepository = (*GormConnectionRepository)(nil)
