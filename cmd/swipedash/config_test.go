package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate makes sure that the user's own configuration doesn't leak into tests.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SWIPEDASH_CONFIG", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, err := loadConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Gesture: GestureConfig{
			MinSwipeDistance: 50,
			PullThreshold:    80,
			PreventScroll:    true,
			Mouse:            true,
		},
		Refresh: RefreshConfig{
			Latency:     1200 * time.Millisecond,
			FailureRate: 0.1,
		},
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "swipedash.toml")
	const data = `
[gesture]
min_swipe_distance = 70
mouse = false

[refresh]
latency = "3s"
failure_rate = 0.5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SWIPEDASH_CONFIG", path)

	cfg, err := loadConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gesture.MinSwipeDistance != 70 {
		t.Errorf("MinSwipeDistance=%v, want 70", cfg.Gesture.MinSwipeDistance)
	}
	if cfg.Gesture.Mouse {
		t.Errorf("Mouse=true, want false")
	}
	if cfg.Gesture.PullThreshold != 80 {
		t.Errorf("PullThreshold=%v, want the default of 80", cfg.Gesture.PullThreshold)
	}
	if cfg.Refresh.Latency != 3*time.Second || cfg.Refresh.FailureRate != 0.5 {
		t.Errorf("got %+v, want 3s latency and 0.5 failure rate", cfg.Refresh)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	isolate(t)
	t.Setenv("SWIPEDASH_GESTURE_PULL_THRESHOLD", "120")
	t.Setenv("SWIPEDASH_GESTURE_MIN_SWIPE_DISTANCE", "90")

	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--min-swipe-distance", "30", "--debug"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gesture.PullThreshold != 120 {
		t.Errorf("PullThreshold=%v, want 120 from the environment", cfg.Gesture.PullThreshold)
	}
	if cfg.Gesture.MinSwipeDistance != 30 {
		t.Errorf("MinSwipeDistance=%v, want 30 from the flag", cfg.Gesture.MinSwipeDistance)
	}
	if !cfg.Debug {
		t.Errorf("Debug=false, want true from the flag")
	}
}

func TestLoadConfigBadFailureRate(t *testing.T) {
	isolate(t)
	t.Setenv("SWIPEDASH_REFRESH_FAILURE_RATE", "1.5")

	if _, err := loadConfig(nil); err == nil {
		t.Errorf("accepted a failure rate of 1.5")
	}
}

func TestSwipeAndPullConfig(t *testing.T) {
	cfg := Config{Gesture: GestureConfig{MinSwipeDistance: 60, PullThreshold: 90, PreventScroll: true, Mouse: true}}
	sc := cfg.swipeConfig()
	if sc.MinSwipeDistance != 60 || !sc.PreventScroll || !sc.Mouse {
		t.Errorf("got swipe config %+v", sc)
	}
	pc := cfg.pullConfig()
	if pc.Threshold != 90 || !pc.Mouse || pc.Disabled {
		t.Errorf("got pull config %+v", pc)
	}
}
