package models

import (
	"time"
)

type User struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"       json:"id"`
	Username       string `gorm:"size:50;uniqueIndex;not null"   json:"username"`
	Email          string `gorm:"size:255;uniqueIndex;not null"  json:"email"`
	HashedPassword string `gorm:"not null"                       json:"-"`
	IsActive       bool   `gorm:"not null;default:true"          json:"is_active"`
}

// RevokedToken is a denylist row. It can be pruned once ExpiresAt has passed,
// because the token it blocks would be rejected by its own expiry anyway.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                                                          json:"id"`
	JTI       string    `gorm:"column:jti;size:64;not null;uniqueIndex;uniqueIndex:ix_revoked_tokens_user_jti,priority:2" json:"jti"`
	UserID    uint      `gorm:"not null;uniqueIndex:ix_revoked_tokens_user_jti,priority:1"                        json:"user_id"`
	TokenType string    `gorm:"size:20;not null;default:access"                                                   json:"token_type"`
	RevokedAt time.Time `gorm:"not null"                                                                          json:"revoked_at"`
	ExpiresAt time.Time `gorm:"not null;index"                                                                    json:"expires_at"`
}

type Blog struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"        json:"id"`
	Title   string `gorm:"size:255;uniqueIndex;not null"   json:"title"`
	Content string `gorm:"type:text"                       json:"content"`
	Image   string `gorm:"size:255"                        json:"image"`
	OwnerID uint   `gorm:"not null;index"                  json:"owner_id"`
	Owner   *User  `gorm:"foreignKey:OwnerID"              json:"-"`
}

type FAQ struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Question string `gorm:"size:255;index;not null"  json:"question"`
	Answer   string `gorm:"type:text;not null"       json:"answer"`
}

type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactArchived ContactStatus = "archived"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactRead, ContactArchived:
		return true
	}
	return false
}

type ContactMessage struct {
	ID            uint          `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name          string        `gorm:"size:160;not null;index"           json:"name"`
	Email         string        `gorm:"size:255;not null;index"           json:"email"`
	Phone         string        `gorm:"size:32;not null;index"            json:"phone"`
	Service       *string       `gorm:"size:120"                          json:"service"`
	PreferredTime *string       `gorm:"size:40"                           json:"preferred_time"`
	Message       *string       `gorm:"type:text"                         json:"message"`
	Status        ContactStatus `gorm:"size:20;not null;default:new;index" json:"status"`
	CreatedAt     time.Time     `gorm:"not null;index"                    json:"created_at"`
}

func All() []any {
	return []any{&User{}, &RevokedToken{}, &Blog{}, &FAQ{}, &ContactMessage{}}
}
