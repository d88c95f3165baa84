// Package config holds the application settings and the logger set up from them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "FITASSESS_"

// Config holds configuration options for the application. Exercises is a
// flow selection such as "1,2,plank:45"; empty means the default flow.
type Config struct {
	CameraID     int
	Width        int
	Height       int
	FPS          int
	UserHeightCm float64
	Exercises    string
	ResultsCSV   string
	DataDir      string
	DBPath       string
	PluginDir    string
	Addr         string
	Tray         bool
	LogLevel     string
	LogFormat    string
}

// Default returns the configuration used when nothing is overridden. Data
// lives under ~/.fitassess.
func Default() Config {
	dataDir := ".fitassess"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".fitassess")
	}

	return Config{
		CameraID:     0,
		Width:        1280,
		Height:       720,
		FPS:          30,
		UserHeightCm: 170,
		ResultsCSV:   "fitness_results.csv",
		DataDir:      dataDir,
		PluginDir:    filepath.Join(dataDir, "plugins"),
		Addr:         ":8080",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Database returns DBPath, or fitassess.db inside DataDir when unset.
func (c Config) Database() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "fitassess.db")
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", c.FPS)
	}
	if c.UserHeightCm <= 0 {
		return fmt.Errorf("invalid user height %.1f cm", c.UserHeightCm)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// FromEnv applies FITASSESS_* variables read through getenv on top of c.
// Pass os.Getenv outside tests.
func FromEnv(c Config, getenv func(string) string) (Config, error) {
	ints := map[string]*int{
		"CAMERA": &c.CameraID,
		"WIDTH":  &c.Width,
		"HEIGHT": &c.Height,
		"FPS":    &c.FPS,
	}
	for key, dst := range ints {
		v := getenv(EnvPrefix + key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	if v := getenv(EnvPrefix + "USER_HEIGHT_CM"); v != "" {
		h, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, fmt.Errorf("%sUSER_HEIGHT_CM: %w", EnvPrefix, err)
		}
		c.UserHeightCm = h
	}

	if v := getenv(EnvPrefix + "TRAY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("%sTRAY: %w", EnvPrefix, err)
		}
		c.Tray = b
	}

	strs := map[string]*string{
		"EXERCISES":  &c.Exercises,
		"RESULTS":    &c.ResultsCSV,
		"DATA_DIR":   &c.DataDir,
		"DB":         &c.DBPath,
		"PLUGIN_DIR": &c.PluginDir,
		"ADDR":       &c.Addr,
		"LOG_LEVEL":  &c.LogLevel,
		"LOG_FORMAT": &c.LogFormat,
	}
	for key, dst := range strs {
		if v := strings.TrimSpace(getenv(EnvPrefix + key)); v != "" {
			*dst = v
		}
	}

	return c, nil
}
