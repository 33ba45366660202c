package warehouse

// Table DDL. Nested event records are stored as JSONB so the analytical
// views can reach into them without a flattened copy of every column.
var tableDDL = []string{
	`CREATE TABLE IF NOT EXISTS contents (
		content_id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		genre TEXT NOT NULL,
		release_year INTEGER NOT NULL,
		duration_minutes INTEGER NOT NULL,
		language TEXT NOT NULL,
		rating TEXT NOT NULL,
		tags TEXT[] NOT NULL,
		production_cost DOUBLE PRECISION,
		marketing_budget DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		country TEXT NOT NULL,
		subscription_type TEXT NOT NULL,
		age_group TEXT NOT NULL,
		join_date TIMESTAMPTZ NOT NULL,
		preferred_genres TEXT[] NOT NULL,
		preferred_languages TEXT[] NOT NULL,
		has_profile_pin BOOLEAN NOT NULL,
		max_stream_quality TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS viewing_events (
		event_id TEXT PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL,
		event_type TEXT NOT NULL,
		content_id TEXT NOT NULL REFERENCES contents(content_id),
		user_id TEXT NOT NULL REFERENCES users(user_id),
		device_type TEXT NOT NULL,
		watch_duration_seconds INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		quality_metrics JSONB NOT NULL,
		user_interaction JSONB NOT NULL,
		recommendation_data JSONB NOT NULL,
		engagement_signals JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_viewing_events_content ON viewing_events(content_id)`,
	`CREATE INDEX IF NOT EXISTS idx_viewing_events_user ON viewing_events(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_viewing_events_timestamp ON viewing_events(timestamp)`,
	`CREATE TABLE IF NOT EXISTS content_performance (
		content_id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		genre TEXT NOT NULL,
		event_count INTEGER NOT NULL,
		watch_duration_seconds_sum BIGINT NOT NULL,
		watch_duration_seconds_mean DOUBLE PRECISION NOT NULL,
		buffering_events_mean DOUBLE PRECISION NOT NULL,
		completion_rate_mean DOUBLE PRECISION NOT NULL,
		engagement_score_mean DOUBLE PRECISION NOT NULL,
		production_cost DOUBLE PRECISION,
		marketing_budget DOUBLE PRECISION,
		total_watch_hours DOUBLE PRECISION NOT NULL,
		cost_per_hour DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_behavior (
		user_id TEXT PRIMARY KEY,
		event_count INTEGER NOT NULL,
		watch_duration_seconds_sum BIGINT NOT NULL,
		watch_duration_seconds_mean DOUBLE PRECISION NOT NULL,
		buffering_events_mean DOUBLE PRECISION NOT NULL,
		engagement_score_mean DOUBLE PRECISION NOT NULL,
		user_segment INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS device_quality (
		device_type TEXT PRIMARY KEY,
		event_count INTEGER NOT NULL,
		buffering_events_mean DOUBLE PRECISION NOT NULL,
		average_bitrate_mean DOUBLE PRECISION NOT NULL,
		bandwidth_mbps_mean DOUBLE PRECISION NOT NULL,
		startup_time_seconds_mean DOUBLE PRECISION NOT NULL,
		frames_dropped_ratio_mean DOUBLE PRECISION NOT NULL,
		audio_quality_score_mean DOUBLE PRECISION NOT NULL,
		quality_score DOUBLE PRECISION NOT NULL
	)`,
}

// Analytical views over the raw tables.
var viewDDL = []string{
	`CREATE OR REPLACE VIEW quality_metrics_view AS
	WITH device_metrics AS (
		SELECT
			device_type,
			quality_metrics->>'connection_type' AS connection_type,
			(quality_metrics->>'buffering_events')::integer AS buffering_events,
			(quality_metrics->>'bandwidth_mbps')::double precision AS bandwidth_mbps,
			(quality_metrics->>'startup_time_seconds')::double precision AS startup_time_seconds,
			(quality_metrics->>'frames_dropped_ratio')::double precision AS frames_dropped_ratio,
			(quality_metrics->>'audio_quality_score')::double precision AS audio_quality_score,
			COUNT(*) OVER (PARTITION BY device_type) AS total_sessions
		FROM viewing_events
	)
	SELECT
		device_type,
		connection_type,
		AVG(buffering_events) AS avg_buffering,
		AVG(bandwidth_mbps) AS avg_bandwidth,
		AVG(startup_time_seconds) AS avg_startup_time,
		AVG(frames_dropped_ratio) AS avg_frames_dropped,
		AVG(audio_quality_score) AS avg_audio_quality,
		COUNT(*) AS session_count,
		MAX(total_sessions) AS total_device_sessions
	FROM device_metrics
	GROUP BY device_type, connection_type`,

	`CREATE OR REPLACE VIEW engagement_metrics_view AS
	WITH engagement_stats AS (
		SELECT
			device_type,
			quality_metrics->>'connection_type' AS connection_type,
			(engagement_signals->>'engagement_score')::double precision AS engagement_score,
			(engagement_signals->>'completion_rate')::double precision AS completion_rate,
			watch_duration_seconds,
			PERCENT_RANK() OVER (
				PARTITION BY device_type
				ORDER BY (engagement_signals->>'engagement_score')::double precision
			) AS engagement_percentile
		FROM viewing_events
	)
	SELECT
		device_type,
		connection_type,
		AVG(engagement_score) AS avg_engagement,
		AVG(completion_rate) AS avg_completion,
		AVG(watch_duration_seconds) AS avg_duration,
		COUNT(*) AS session_count,
		AVG(CASE WHEN engagement_percentile >= 0.9 THEN 1 ELSE 0 END) AS high_engagement_ratio
	FROM engagement_stats
	GROUP BY device_type, connection_type`,

	`CREATE OR REPLACE VIEW ratings_analysis_view AS
	WITH content_ratings AS (
		SELECT
			c.content_id,
			c.type,
			c.genre,
			c.title,
			(v.engagement_signals->>'rating_given')::integer AS rating_given,
			(v.engagement_signals->>'engagement_score')::double precision AS engagement_score,
			COUNT(*) OVER (PARTITION BY c.content_id) AS view_count,
			AVG((v.engagement_signals->>'rating_given')::integer) OVER (PARTITION BY c.genre) AS genre_avg_rating
		FROM contents c
		JOIN viewing_events v ON c.content_id = v.content_id
	)
	SELECT
		type,
		genre,
		AVG(COALESCE(rating_given, 0)) AS avg_rating,
		COUNT(DISTINCT content_id) AS content_count,
		SUM(view_count) AS total_views,
		AVG(engagement_score) AS avg_engagement,
		AVG(genre_avg_rating) AS genre_rating
	FROM content_ratings
	GROUP BY type, genre`,

	`CREATE OR REPLACE VIEW recommendation_analysis_view AS
	WITH recommendation_metrics AS (
		SELECT
			recommendation_data->>'algorithm_type' AS algorithm_type,
			recommendation_data->>'recommendation_category' AS recommendation_category,
			(recommendation_data->>'recommendation_score')::double precision AS recommendation_score,
			(engagement_signals->>'engagement_score')::double precision AS engagement_score,
			(engagement_signals->>'rating_given')::integer AS rating_given,
			ROW_NUMBER() OVER (
				PARTITION BY recommendation_data->>'algorithm_type'
				ORDER BY (engagement_signals->>'engagement_score')::double precision DESC
			) AS rank_by_engagement
		FROM viewing_events
	)
	SELECT
		algorithm_type,
		recommendation_category,
		AVG(recommendation_score) AS avg_rec_score,
		AVG(engagement_score) AS avg_engagement,
		AVG(COALESCE(rating_given, 0)) AS avg_rating,
		COUNT(*) AS recommendation_count,
		AVG(CASE WHEN rank_by_engagement <= 10 THEN 1 ELSE 0 END) AS top_10_engagement_rate
	FROM recommendation_metrics
	GROUP BY algorithm_type, recommendation_category`,
}
