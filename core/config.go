package core

import (
	"os"
	"time"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors osal.yaml.
type Config struct {
	// Capacity is the fixed number of concurrent task slots.
	Capacity int `yaml:"capacity"`

	// NameMax bounds task names; longer names are silently truncated.
	NameMax int `yaml:"name_max"`

	// DelaySliceMS is the checkpoint slice width for long delays. It
	// bounds worst-case suspend/stop latency regardless of the requested
	// delay length.
	DelaySliceMS int `yaml:"delay_slice_ms"`

	// DelaySliceThresholdMS: delays at or below this are slept in one go.
	DelaySliceThresholdMS int `yaml:"delay_slice_threshold_ms"`

	// ElevatedScheduling opts tasks into the real-time class. Without
	// privilege the layer degrades to the time-shared default and logs a
	// warning rather than failing task creation.
	ElevatedScheduling bool `yaml:"elevated_scheduling"`

	// WatchdogIntervalMS is how often the checkpoint watchdog scans for
	// stalled tasks. 0 disables the watchdog.
	WatchdogIntervalMS int `yaml:"watchdog_interval_ms"`

	// WatchdogStallMS is how long a running task may go without a
	// checkpoint before it is reported as stalled.
	WatchdogStallMS int `yaml:"watchdog_stall_ms"`

	// HistoryCapacity bounds the lifecycle event journal. 0 uses the
	// default; negative disables journaling.
	HistoryCapacity int `yaml:"history_capacity"`
}

// If the config file is not found, we use default values: 8 slots,
// 16-byte names, 10 ms slices with a 50 ms threshold.
func DefaultConfig() Config {
	return Config{
		Capacity:              8,
		NameMax:               16,
		DelaySliceMS:          10,
		DelaySliceThresholdMS: 50,
		ElevatedScheduling:    true,
		WatchdogIntervalMS:    0,
		WatchdogStallMS:       1000,
		HistoryCapacity:       128,
	}
}

// LoadConfig reads YAML and overrides defaults; empty path = defaults only.
func LoadConfig(path string) Config {
	cfg := DefaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)
	return cfg.sanitized()
}

// sanitized clamps out-of-range values back to usable ones.
func (c Config) sanitized() Config {
	if c.Capacity <= 0 {
		c.Capacity = 8
	}
	if c.NameMax <= 0 {
		c.NameMax = 16
	}
	if c.DelaySliceMS <= 0 {
		c.DelaySliceMS = 10
	}
	if c.DelaySliceThresholdMS < c.DelaySliceMS {
		c.DelaySliceThresholdMS = 50
	}
	if c.WatchdogIntervalMS < 0 {
		c.WatchdogIntervalMS = 0
	}
	if c.WatchdogStallMS <= 0 {
		c.WatchdogStallMS = 1000
	}
	return c
}

func (c Config) delaySlice() time.Duration {
	return time.Duration(c.DelaySliceMS) * time.Millisecond
}

func (c Config) delaySliceThreshold() time.Duration {
	return time.Duration(c.DelaySliceThresholdMS) * time.Millisecond
}

func (c Config) watchdogInterval() time.Duration {
	return time.Duration(c.WatchdogIntervalMS) * time.Millisecond
}

func (c Config) watchdogStall() time.Duration {
	return time.Duration(c.WatchdogStallMS) * time.Millisecond
}
