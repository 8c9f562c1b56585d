package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix namespaces all environment variables read by the service,
// e.g. BURST_SERVER_PORT or BURST_DATABASE_URL.
const envPrefix = "BURST"

// Load configuration from environment variables and optionally a config
// file. Environment variables take precedence over values from config
// files. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file next to the binary or in /etc; absence is fine,
	// env vars alone can configure the service.
	v.SetConfigName("burst")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/burst")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows from defaults or a
	// config file. database.url deliberately has no default, so it must be
	// bound explicitly for BURST_DATABASE_URL to reach Unmarshal.
	if err := v.BindEnv("database.url", "BURST_DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("binding environment variable BURST_DATABASE_URL: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults installs the product-tuned defaults so a bare environment
// (just BURST_DATABASE_URL) yields a runnable configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("scoring.window_days", 30)
	v.SetDefault("scoring.diversity_weight", 0.25)
	v.SetDefault("scoring.accuracy_weight", 0.25)
	v.SetDefault("scoring.switch_speed_weight", 0.20)
	v.SetDefault("scoring.consistency_weight", 0.15)
	v.SetDefault("scoring.improvement_weight", 0.15)
	v.SetDefault("scoring.streak_cap_days", 30)
	v.SetDefault("scoring.trend_max_points", 14)
	v.SetDefault("scoring.trend_sigmoid_k", 1.5)

	v.SetDefault("selection.difficulty_levels", []string{"beginner", "intermediate", "advanced"})
	v.SetDefault("selection.no_repeat_days", 14)
	v.SetDefault("selection.min_attempts_for_weak_area", 3)
	v.SetDefault("selection.weak_area_cooldown_selections", 3)
	v.SetDefault("selection.promotion_accuracy_threshold", 0.85)
	v.SetDefault("selection.promotion_sample_count", 5)

	v.SetDefault("batch.schedule", "0 3 * * *")
	v.SetDefault("batch.parallelism", 8)
	v.SetDefault("batch.active_window_days", 30)
}
