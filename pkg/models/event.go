package models

import "time"

// QualityMetrics describes the delivery quality observed during a single
// viewing session. Buffering, bandwidth, frame drops and startup latency are
// always drawn together from one quality tier, never mixed across tiers.
type QualityMetrics struct {
	BufferingEvents    int     `json:"buffering_events" db:"buffering_events" validate:"min=0"`
	AverageBitrate     int     `json:"average_bitrate" db:"average_bitrate" validate:"min=0"`
	PlaybackQuality    string  `json:"playback_quality" db:"playback_quality"`
	ConnectionType     string  `json:"connection_type" db:"connection_type"`
	BandwidthMbps      float64 `json:"bandwidth_mbps" db:"bandwidth_mbps"`
	StartupTimeSeconds float64 `json:"startup_time_seconds" db:"startup_time_seconds"`
	FramesDroppedRatio float64 `json:"frames_dropped_ratio" db:"frames_dropped_ratio"`
	AudioQualityScore  float64 `json:"audio_quality_score" db:"audio_quality_score" validate:"min=0,max=1"`
}

// UserInteraction counts the in-player actions taken during the session.
type UserInteraction struct {
	RewindCount     int `json:"rewind_count" db:"rewind_count" validate:"min=0"`
	ForwardCount    int `json:"forward_count" db:"forward_count" validate:"min=0"`
	PauseCount      int `json:"pause_count" db:"pause_count" validate:"min=0"`
	QualityChanges  int `json:"quality_changes" db:"quality_changes" validate:"min=0"`
	SubtitleChanges int `json:"subtitle_changes" db:"subtitle_changes" validate:"min=0"`
	VolumeChanges   int `json:"volume_changes" db:"volume_changes" validate:"min=0"`
}

// RecommendationData records how the content was surfaced to the user.
type RecommendationData struct {
	AlgorithmType          string  `json:"algorithm_type" db:"algorithm_type"`
	RecommendationScore    float64 `json:"recommendation_score" db:"recommendation_score" validate:"min=0,max=1"`
	PositionInList         int     `json:"position_in_list" db:"position_in_list" validate:"min=1"`
	RecommendationCategory string  `json:"recommendation_category" db:"recommendation_category"`
}

// EngagementSignals carries the derived engagement outcome of the session.
// CompletionRate and EngagementScore are clamped into [0, 1] at generation
// time; values outside that range downstream indicate a generator bug.
type EngagementSignals struct {
	CompletionRate  float64 `json:"completion_rate" db:"completion_rate" validate:"min=0,max=1"`
	EngagementScore float64 `json:"engagement_score" db:"engagement_score" validate:"min=0,max=1"`
	SocialSharing   bool    `json:"social_sharing" db:"social_sharing"`
	RatingGiven     *int    `json:"rating_given,omitempty" db:"rating_given" validate:"omitempty,min=1,max=5"`
}

// ViewingEvent is one entry of the synthetic viewing log. ContentID and
// UserID always resolve into the catalog and population the event was
// generated against.
type ViewingEvent struct {
	ID                   string             `json:"event_id" db:"event_id"`
	Timestamp            time.Time          `json:"timestamp" db:"timestamp"`
	EventType            string             `json:"event_type" db:"event_type"`
	ContentID            string             `json:"content_id" db:"content_id" validate:"required"`
	UserID               string             `json:"user_id" db:"user_id" validate:"required"`
	DeviceType           string             `json:"device_type" db:"device_type"`
	WatchDurationSeconds int                `json:"watch_duration_seconds" db:"watch_duration_seconds" validate:"min=0"`
	SessionID            string             `json:"session_id" db:"session_id"`
	QualityMetrics       QualityMetrics     `json:"quality_metrics" db:"quality_metrics"`
	UserInteraction      UserInteraction    `json:"user_interaction" db:"user_interaction"`
	RecommendationData   RecommendationData `json:"recommendation_data" db:"recommendation_data"`
	EngagementSignals    EngagementSignals  `json:"engagement_signals" db:"engagement_signals"`
}
