package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"honnef.co/go/swipedash/gesture"
)

type Config struct {
	Gesture GestureConfig `mapstructure:"gesture"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	// Record is the path of a touch log to record pointer input to.
	Record string `mapstructure:"record"`
	Debug  bool   `mapstructure:"debug"`
}

type GestureConfig struct {
	MinSwipeDistance float32 `mapstructure:"min_swipe_distance"`
	PullThreshold    float32 `mapstructure:"pull_threshold"`
	PreventScroll    bool    `mapstructure:"prevent_scroll"`
	Mouse            bool    `mapstructure:"mouse"`
}

// RefreshConfig configures the simulated backend.
type RefreshConfig struct {
	Latency     time.Duration `mapstructure:"latency"`
	FailureRate float64       `mapstructure:"failure_rate"`
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"debug":              "debug",
	"min-swipe-distance": "gesture.min_swipe_distance",
	"pull-threshold":     "gesture.pull_threshold",
	"prevent-scroll":     "gesture.prevent_scroll",
	"mouse":              "gesture.mouse",
	"refresh-latency":    "refresh.latency",
	"failure-rate":       "refresh.failure_rate",
	"record":             "record",
}

// loadConfig merges, in increasing order of precedence, defaults, the config file, SWIPEDASH_* environment variables
// and flags that were set explicitly.
func loadConfig(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("gesture.min_swipe_distance", gesture.DefaultMinSwipeDistance)
	v.SetDefault("gesture.pull_threshold", gesture.DefaultPullThreshold)
	v.SetDefault("gesture.prevent_scroll", true)
	v.SetDefault("gesture.mouse", true)
	v.SetDefault("refresh.latency", 1200*time.Millisecond)
	v.SetDefault("refresh.failure_rate", 0.1)
	v.SetDefault("record", "")
	v.SetDefault("debug", false)

	v.SetConfigType("toml")
	if cfgPath := os.Getenv("SWIPEDASH_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "swipedash"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SWIPEDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %q: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Refresh.FailureRate < 0 || c.Refresh.FailureRate > 1 {
		return Config{}, fmt.Errorf("refresh.failure_rate must be in [0, 1], got %v", c.Refresh.FailureRate)
	}
	return c, nil
}

func (c Config) swipeConfig() gesture.SwipeConfig {
	return gesture.SwipeConfig{
		MinSwipeDistance: c.Gesture.MinSwipeDistance,
		PreventScroll:    c.Gesture.PreventScroll,
		Mouse:            c.Gesture.Mouse,
	}
}

func (c Config) pullConfig() gesture.PullConfig {
	return gesture.PullConfig{
		Threshold: c.Gesture.PullThreshold,
		Mouse:     c.Gesture.Mouse,
	}
}
