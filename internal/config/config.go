package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Scoring   ScoringConfig   `mapstructure:"scoring" validate:"required"`
	Selection SelectionConfig `mapstructure:"selection" validate:"required"`
	Batch     BatchConfig     `mapstructure:"batch" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// ScoringConfig tunes the Echo Score computation. The weights must sum to
// 1.0; that cross-field rule is enforced by the scoring parameter
// constructor rather than struct tags.
type ScoringConfig struct {
	WindowDays        int     `mapstructure:"window_days" validate:"required,gt=0"`
	DiversityWeight   float64 `mapstructure:"diversity_weight" validate:"gte=0,lte=1"`
	AccuracyWeight    float64 `mapstructure:"accuracy_weight" validate:"gte=0,lte=1"`
	SwitchSpeedWeight float64 `mapstructure:"switch_speed_weight" validate:"gte=0,lte=1"`
	ConsistencyWeight float64 `mapstructure:"consistency_weight" validate:"gte=0,lte=1"`
	ImprovementWeight float64 `mapstructure:"improvement_weight" validate:"gte=0,lte=1"`
	StreakCapDays     int     `mapstructure:"streak_cap_days" validate:"required,gt=0"`
	TrendMaxPoints    int     `mapstructure:"trend_max_points" validate:"required,gt=1"`
	TrendSigmoidK     float64 `mapstructure:"trend_sigmoid_k" validate:"required,gt=0"`
}

// SelectionConfig tunes the daily-challenge decision policy.
type SelectionConfig struct {
	// DifficultyLevels is the ordered difficulty ladder, lowest first.
	DifficultyLevels           []string `mapstructure:"difficulty_levels" validate:"required,min=1,dive,oneof=beginner intermediate advanced"`
	NoRepeatDays               int      `mapstructure:"no_repeat_days" validate:"required,gt=0"`
	MinAttemptsForWeakArea     int      `mapstructure:"min_attempts_for_weak_area" validate:"required,gt=0"`
	WeakAreaCooldownSelections int      `mapstructure:"weak_area_cooldown_selections" validate:"required,gt=0"`
	PromotionAccuracyThreshold float64  `mapstructure:"promotion_accuracy_threshold" validate:"required,gt=0,lte=1"`
	PromotionSampleCount       int      `mapstructure:"promotion_sample_count" validate:"required,gt=0"`
}

// BatchConfig controls the nightly scoring run.
type BatchConfig struct {
	// Schedule is a cron expression in the server's local time.
	Schedule string `mapstructure:"schedule" validate:"required"`
	// Parallelism bounds how many users are scored concurrently.
	Parallelism int `mapstructure:"parallelism" validate:"required,gt=0"`
	// ActiveWindowDays limits the run to users active within the window.
	ActiveWindowDays int `mapstructure:"active_window_days" validate:"required,gt=0"`
}
