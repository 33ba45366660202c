package analytics

import (
	"time"

	"github.com/temcen/streamlens/pkg/models"
)

// weekdayOrder fixes the reporting order of the weekday histogram.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// TemporalAnalyzer counts viewing events into hourly and weekday histograms.
type TemporalAnalyzer struct{}

func NewTemporalAnalyzer() *TemporalAnalyzer {
	return &TemporalAnalyzer{}
}

// Analyze buckets events by the local hour and weekday of their timestamp.
// Both histograms always carry every bucket, zero counts included, in a
// fixed order (0-23, Monday-Sunday).
func (a *TemporalAnalyzer) Analyze(events []models.ViewingEvent) ([]models.HourBucket, []models.WeekdayBucket) {
	var hourCounts [24]int
	weekdayCounts := map[time.Weekday]int{}

	for _, event := range events {
		hourCounts[event.Timestamp.Hour()]++
		weekdayCounts[event.Timestamp.Weekday()]++
	}

	hours := make([]models.HourBucket, 24)
	for hour := range hours {
		hours[hour] = models.HourBucket{Hour: hour, Count: hourCounts[hour]}
	}

	weekdays := make([]models.WeekdayBucket, 0, len(weekdayOrder))
	for _, day := range weekdayOrder {
		weekdays = append(weekdays, models.WeekdayBucket{
			Day:   day.String(),
			Count: weekdayCounts[day],
		})
	}

	return hours, weekdays
}
