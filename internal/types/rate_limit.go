package types

import "time"

// RateLimitBucket counts calls for one actor within one calendar minute.
// The key already encodes its minute, so stale buckets simply stop being
// referenced and are never explicitly expired.
type RateLimitBucket struct {
	Key       string    `gorm:"primaryKey;column:key" json:"key"`
	Count     int       `gorm:"not null;default:0;column:count" json:"count"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (RateLimitBucket) TableName() string {
	return "rate_limits"
}
