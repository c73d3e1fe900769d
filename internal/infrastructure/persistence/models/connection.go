package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/joachimaross/quemiai-sub000/internal/domain/shared"
	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
)

// PlatformConnectionModel is the persistence model for the PlatformConnection
// domain entity. The (user_id, platform) pair is unique so concurrent connects
// for the same pair serialize on the index.
type PlatformConnectionModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_connections_user_platform,priority:1"`
	Platform         social.Platform `gorm:"type:varchar(20);not null;uniqueIndex:idx_connections_user_platform,priority:2"`
	PlatformUserID   string          `gorm:"type:varchar(100);not null"`
	PlatformUsername string          `gorm:"type:varchar(255)"`
	AccessToken      string          `gorm:"type:text;not null"`
	RefreshToken     string          `gorm:"type:text"`
	TokenExpiresAt   *time.Time      `gorm:"index"`
	IsActive         bool            `gorm:"not null;default:true;index"`
	MetadataJSON     string          `gorm:"type:text;column:metadata"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PlatformConnectionModel) TableName() string {
	return "platform_connections"
}

// ToDomain converts the persistence model to a domain PlatformConnection entity.
func (m *PlatformConnectionModel) ToDomain() *social.PlatformConnection {
	conn := &social.PlatformConnection{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		UserID:           m.UserID,
		Platform:         m.Platform,
		PlatformUserID:   m.PlatformUserID,
		PlatformUsername: m.PlatformUsername,
		AccessToken:      m.AccessToken,
		RefreshToken:     m.RefreshToken,
		TokenExpiresAt:   m.TokenExpiresAt,
		IsActive:         m.IsActive,
	}
	if m.MetadataJSON != "" {
		var metadata social.Metadata
		if err := json.Unmarshal([]byte(m.MetadataJSON), &metadata); err == nil {
			conn.Metadata = metadata
		}
	}
	return conn
}

// FromDomain populates the persistence model from a domain PlatformConnection entity.
func (m *PlatformConnectionModel) FromDomain(conn *social.PlatformConnection) {
	m.ID = conn.ID
	m.UserID = conn.UserID
	m.Platform = conn.Platform
	m.PlatformUserID = conn.PlatformUserID
	m.PlatformUsername = conn.PlatformUsername
	m.AccessToken = conn.AccessToken
	m.RefreshToken = conn.RefreshToken
	m.TokenExpiresAt = conn.TokenExpiresAt
	m.IsActive = conn.IsActive
	m.CreatedAt = conn.CreatedAt
	m.UpdatedAt = conn.UpdatedAt

	if conn.Metadata.IsZero() {
		m.MetadataJSON = "{}"
	} else if jsonBytes, err := json.Marshal(conn.Metadata); err == nil {
		m.MetadataJSON = string(jsonBytes)
	}
}

// PlatformConnectionModelFromDomain creates a new persistence model from a
// domain PlatformConnection entity.
func PlatformConnectionModelFromDomain(conn *social.PlatformConnection) *PlatformConnectionModel {
	m := &PlatformConnectionModel{}
	m.FromDomain(conn)
	return m
}
