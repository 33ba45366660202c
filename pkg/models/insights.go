package models

import "time"

// ContentPerformanceRecord aggregates all viewing events of one content item.
// CostPerHour is NaN when the content item carries no production cost or
// accumulated zero watch hours.
type ContentPerformanceRecord struct {
	ContentID           string   `json:"content_id" db:"content_id"`
	Type                string   `json:"type" db:"type"`
	Genre               string   `json:"genre" db:"genre"`
	EventCount          int      `json:"event_count" db:"event_count"`
	WatchDurationSum    int64    `json:"watch_duration_seconds_sum" db:"watch_duration_seconds_sum"`
	WatchDurationMean   float64  `json:"watch_duration_seconds_mean" db:"watch_duration_seconds_mean"`
	MeanBufferingEvents float64  `json:"buffering_events_mean" db:"buffering_events_mean"`
	MeanCompletionRate  float64  `json:"completion_rate_mean" db:"completion_rate_mean"`
	MeanEngagementScore float64  `json:"engagement_score_mean" db:"engagement_score_mean"`
	ProductionCost      *float64 `json:"production_cost,omitempty" db:"production_cost"`
	MarketingBudget     *float64 `json:"marketing_budget,omitempty" db:"marketing_budget"`
	TotalWatchHours     float64  `json:"total_watch_hours" db:"total_watch_hours"`
	CostPerHour         float64  `json:"cost_per_hour" db:"cost_per_hour"`
}

// UserBehaviorRecord aggregates all viewing events of one user and carries
// the behavioral segment label assigned by clustering.
type UserBehaviorRecord struct {
	UserID              string  `json:"user_id" db:"user_id"`
	EventCount          int     `json:"event_count" db:"event_count"`
	WatchDurationSum    int64   `json:"watch_duration_seconds_sum" db:"watch_duration_seconds_sum"`
	WatchDurationMean   float64 `json:"watch_duration_seconds_mean" db:"watch_duration_seconds_mean"`
	MeanBufferingEvents float64 `json:"buffering_events_mean" db:"buffering_events_mean"`
	MeanEngagementScore float64 `json:"engagement_score_mean" db:"engagement_score_mean"`
	Segment             int     `json:"user_segment" db:"user_segment"`
}

// DeviceQualityRecord aggregates delivery quality per device type.
// QualityScore combines frame drops, startup latency and bitrate under fixed
// 0.3/0.3/0.4 weights, with latency and bitrate normalized against the
// worst/best device in the same table.
type DeviceQualityRecord struct {
	DeviceType             string  `json:"device_type" db:"device_type"`
	EventCount             int     `json:"event_count" db:"event_count"`
	MeanBufferingEvents    float64 `json:"buffering_events_mean" db:"buffering_events_mean"`
	MeanBitrate            float64 `json:"average_bitrate_mean" db:"average_bitrate_mean"`
	MeanBandwidthMbps      float64 `json:"bandwidth_mbps_mean" db:"bandwidth_mbps_mean"`
	MeanStartupTimeSeconds float64 `json:"startup_time_seconds_mean" db:"startup_time_seconds_mean"`
	MeanFramesDroppedRatio float64 `json:"frames_dropped_ratio_mean" db:"frames_dropped_ratio_mean"`
	MeanAudioQualityScore  float64 `json:"audio_quality_score_mean" db:"audio_quality_score_mean"`
	QualityScore           float64 `json:"quality_score" db:"quality_score"`
}

// SegmentProfile summarizes one behavioral segment.
type SegmentProfile struct {
	Segment             int     `json:"user_segment"`
	UserCount           int     `json:"user_count"`
	WatchDurationMean   float64 `json:"watch_duration_seconds_mean"`
	MeanEngagementScore float64 `json:"engagement_score_mean"`
}

// HourBucket is one entry of the hourly viewing histogram.
type HourBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// WeekdayBucket is one entry of the weekday viewing histogram, ordered
// Monday through Sunday.
type WeekdayBucket struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// OverallMetrics are the headline numbers of a pipeline run.
type OverallMetrics struct {
	TotalEvents         int     `json:"total_events"`
	TotalWatchHours     float64 `json:"total_watch_hours"`
	MeanEngagementScore float64 `json:"engagement_score_mean"`
	MeanCostPerHour     float64 `json:"cost_per_hour_mean"`
}

// InsightsBundle is the final serializable output of the pipeline.
type InsightsBundle struct {
	GeneratedAt          time.Time                  `json:"generated_at"`
	Seed                 int64                      `json:"seed"`
	TopPerformingContent []ContentPerformanceRecord `json:"top_performing_content"`
	CostEffectiveContent []ContentPerformanceRecord `json:"cost_effective_content"`
	UserSegments         []SegmentProfile           `json:"user_segments"`
	HourlyPatterns       []HourBucket               `json:"hourly_patterns"`
	DailyPatterns        []WeekdayBucket            `json:"daily_patterns"`
	DevicePerformance    []DeviceQualityRecord      `json:"device_performance"`
	Overall              OverallMetrics             `json:"overall"`
}
