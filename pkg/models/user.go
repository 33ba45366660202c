package models

import "time"

const (
	SubscriptionBasic    = "basic"
	SubscriptionStandard = "standard"
	SubscriptionPremium  = "premium"
	SubscriptionStudent  = "student"
	SubscriptionFamily   = "family"
)

const (
	StreamQualitySD = "SD"
	StreamQualityHD = "HD"
	StreamQuality4K = "4K"
)

// User is a single member of the generated population. Immutable after
// generation.
type User struct {
	ID                 string    `json:"user_id" db:"user_id"`
	Country            string    `json:"country" db:"country" validate:"required"`
	SubscriptionType   string    `json:"subscription_type" db:"subscription_type" validate:"required,oneof=basic standard premium student family"`
	AgeGroup           string    `json:"age_group" db:"age_group" validate:"required"`
	JoinDate           time.Time `json:"join_date" db:"join_date"`
	PreferredGenres    []string  `json:"preferred_genres" db:"preferred_genres" validate:"min=3,max=6"`
	PreferredLanguages []string  `json:"preferred_languages" db:"preferred_languages" validate:"min=1"`
	HasProfilePIN      bool      `json:"has_profile_pin" db:"has_profile_pin"`
	MaxStreamQuality   string    `json:"max_stream_quality" db:"max_stream_quality"`
}

// MaxStreamQualityFor derives the playback ceiling from the subscription
// tier: premium streams 4K, standard and family HD, everything else SD.
func MaxStreamQualityFor(subscription string) string {
	switch subscription {
	case SubscriptionPremium:
		return StreamQuality4K
	case SubscriptionStandard, SubscriptionFamily:
		return StreamQualityHD
	default:
		return StreamQualitySD
	}
}
