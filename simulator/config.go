package simulator

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Parameter ranges, matching the bounds of the classic exercise: a tiny
// address space and a resident set of at most seven frames
const (
	MinPages = 0
	MaxPages = 9
	MinFrames = 1
	MaxFrames = 7

	// DefaultRefStringLength is the canonical exercise string length
	DefaultRefStringLength = 20
)

// Config holds simulator configuration
type Config struct {
	// Simulation Configuration
	NumPages int `json:"num_pages"` // Address space size, bound for page IDs
	NumFrames int `json:"num_frames"` // Resident set capacity
	RefStringLength int `json:"ref_string_length"` // Generated reference string length
	Policy string `json:"policy"` // Replacement policy (fifo, lru, opt)
	Seed int64 `json:"seed"` // Generator seed (0 means time-based seeding by the caller)

	// Trace Configuration
	TraceEnabled bool `json:"trace_enabled"` // Whether runs are appended to the trace log
	TraceDirectory string `json:"trace_directory"` // Directory for trace files
	TraceCompression string `json:"trace_compression"` // Trace compression (none, lz4, snappy)

	// Performance Configuration
	EnableMetrics bool `json:"enable_metrics"` // Whether to collect metrics
	LogLevel string `json:"log_level"` // Log level (debug, info, warn, error)
}

// DefaultConfig returns the default configuration
// Defaults mirror the original exercise: 9 pages, 7 frames, strings of 20
func DefaultConfig() *Config {
	return &Config{
		NumPages: MaxPages,
		NumFrames: MaxFrames,
		RefStringLength: DefaultRefStringLength,
		Policy: string(PolicyFIFO),
		Seed: 0,
		TraceEnabled: false,
		TraceDirectory: "./trace",
		TraceCompression: "snappy",
		EnableMetrics: true,
		LogLevel: "info",
	}
}

// LoadConfigFromFile loads configuration from a JSON file
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	err = json.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigFromEnv loads configuration from environment variables
// Falls back to default values if environment variables are not set
func LoadConfigFromEnv() *Config {
	config := DefaultConfig()

	// Simulation
	if val := os.Getenv("PAGESIM_NUM_PAGES"); val != "" {
		if pages, err := strconv.Atoi(val); err == nil {
			config.NumPages = pages
		}
	}

	if val := os.Getenv("PAGESIM_NUM_FRAMES"); val != "" {
		if frames, err := strconv.Atoi(val); err == nil {
			config.NumFrames = frames
		}
	}

	if val := os.Getenv("PAGESIM_REF_STRING_LENGTH"); val != "" {
		if length, err := strconv.Atoi(val); err == nil {
			config.RefStringLength = length
		}
	}

	if val := os.Getenv("PAGESIM_POLICY"); val != "" {
		config.Policy = val
	}

	if val := os.Getenv("PAGESIM_SEED"); val != "" {
		if seed, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.Seed = seed
		}
	}

	// Trace
	if val := os.Getenv("PAGESIM_TRACE_ENABLED"); val != "" {
		config.TraceEnabled = val == "true" || val == "1"
	}

	if val := os.Getenv("PAGESIM_TRACE_DIRECTORY"); val != "" {
		config.TraceDirectory = val
	}

	if val := os.Getenv("PAGESIM_TRACE_COMPRESSION"); val != "" {
		config.TraceCompression = val
	}

	// Performance
	if val := os.Getenv("PAGESIM_ENABLE_METRICS"); val != "" {
		config.EnableMetrics = val == "true" || val == "1"
	}

	if val := os.Getenv("PAGESIM_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	return config
}

// SaveToFile saves the configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", " ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.NumPages < MinPages || c.NumPages > MaxPages {
		return fmt.Errorf("num pages must be in [%d, %d], got %d", MinPages, MaxPages, c.NumPages)
	}

	if c.NumFrames < MinFrames || c.NumFrames > MaxFrames {
		return fmt.Errorf("num frames must be in [%d, %d], got %d", MinFrames, MaxFrames, c.NumFrames)
	}

	if c.RefStringLength < 0 {
		return fmt.Errorf("ref string length cannot be negative, got %d", c.RefStringLength)
	}

	validPolicies := map[string]bool{
		string(PolicyFIFO): true,
		string(PolicyLRU): true,
		string(PolicyOPT): true,
	}

	if !validPolicies[c.Policy] {
		return fmt.Errorf("invalid policy: %s (must be fifo, lru, or opt)", c.Policy)
	}

	if c.TraceEnabled && c.TraceDirectory == "" {
		return fmt.Errorf("trace directory cannot be empty when tracing is enabled")
	}

	validCompression := map[string]bool{
		"none": true,
		"lz4": true,
		"snappy": true,
	}

	if !validCompression[c.TraceCompression] {
		return fmt.Errorf("invalid trace compression: %s (must be none, lz4, or snappy)", c.TraceCompression)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info": true,
		"warn": true,
		"error": true,
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
