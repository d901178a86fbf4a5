package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	TierFree = "free"
	TierPro  = "pro"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name       string    `json:"name"`
	Email      string    `gorm:"uniqueIndex" json:"email"`
	Password   string    `json:"-"`
	Tier       string    `gorm:"default:free" json:"tier"`
	ProExpires *time.Time `json:"pro_expires,omitempty"`
	IsVerified bool      `gorm:"default:false" json:"is_verified"`
	ImageURL   string    `json:"image_url,omitempty"`

	Timestamp
}

// HasProAccess reports whether the pro tier is active at the given time.
func (u *User) HasProAccess(now time.Time) bool {
	if u.Tier != TierPro {
		return false
	}
	return u.ProExpires == nil || u.ProExpires.After(now)
}
