package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/diptych/internal/catalog"
	"github.com/five82/diptych/internal/datefmt"
	"github.com/five82/diptych/internal/logging"
	"github.com/five82/diptych/internal/timeline"
)

// Config captures everything diptych reads from config.toml.
type Config struct {
	APIBind   string
	EpochUnit catalog.EpochUnit
	LogLevel  string
	LogFile   string

	Left  Side
	Right Side

	Grid     Grid
	Tracker  Tracker
	Timeline Timeline
	Dates    Dates
}

// Side selects the collection one pane browses.
type Side struct {
	Collection string
	Filter     string
}

// Grid tunes cell layout and windowing.
type Grid struct {
	Gap              int
	OverscanRows     int
	ResetThreshold   int
	ScrollbarReserve int
	DateStrip        int
}

// Tracker tunes the visible-date tracker and banner.
type Tracker struct {
	Settle     time.Duration
	BannerHide time.Duration
}

// Timeline tunes the density strip.
type Timeline struct {
	Debounce    time.Duration
	MinItems    int
	Orientation timeline.Orientation
}

// Dates configures date formatting.
type Dates struct {
	Timezone     string
	MonthLayout  string
	BannerLayout string
	MonthNames   []string
}

const (
	defaultConfigPath       = "~/.config/diptych/config.toml"
	defaultLogFile          = "~/.local/state/diptych/diptych.log"
	defaultAPIBind          = "127.0.0.1:8080"
	defaultLogLevel         = "info"
	defaultCollection       = "photos"
	defaultFilter           = "all"
	defaultGap              = 1
	defaultOverscan         = 5
	defaultResetThreshold   = 20
	defaultScrollbarReserve = 1
	defaultDateStrip        = 1
	defaultSettleMS         = 150
	defaultBannerMS         = 3000
	defaultDebounceMS       = 300
	defaultMinItems         = 20
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBind:   defaultAPIBind,
		EpochUnit: catalog.EpochSeconds,
		LogLevel:  defaultLogLevel,
		LogFile:   mustExpand(defaultLogFile),
		Left:      Side{Collection: defaultCollection, Filter: defaultFilter},
		Right:     Side{Collection: defaultCollection, Filter: defaultFilter},
		Grid: Grid{
			Gap:              defaultGap,
			OverscanRows:     defaultOverscan,
			ResetThreshold:   defaultResetThreshold,
			ScrollbarReserve: defaultScrollbarReserve,
			DateStrip:        defaultDateStrip,
		},
		Tracker: Tracker{
			Settle:     defaultSettleMS * time.Millisecond,
			BannerHide: defaultBannerMS * time.Millisecond,
		},
		Timeline: Timeline{
			Debounce:    defaultDebounceMS * time.Millisecond,
			MinItems:    defaultMinItems,
			Orientation: timeline.NewestAtTop,
		},
		Dates: Dates{
			Timezone:     "Local",
			MonthLayout:  datefmt.DefaultMonthLayout,
			BannerLayout: datefmt.DefaultBannerLayout,
		},
	}
}

type rawSide struct {
	Collection string `toml:"collection"`
	Filter     string `toml:"filter"`
}

type rawConfig struct {
	APIBind   string  `toml:"api_bind"`
	EpochUnit string  `toml:"epoch_unit"`
	LogLevel  string  `toml:"log_level"`
	LogFile   string  `toml:"log_file"`
	Left      rawSide `toml:"left"`
	Right     rawSide `toml:"right"`
	Grid      struct {
		Gap              *int `toml:"gap"`
		OverscanRows     *int `toml:"overscan_rows"`
		ResetThreshold   *int `toml:"reset_threshold"`
		ScrollbarReserve *int `toml:"scrollbar_reserve"`
		DateStrip        *int `toml:"date_strip"`
	} `toml:"grid"`
	Tracker struct {
		SettleMS *int `toml:"settle_ms"`
		BannerMS *int `toml:"banner_ms"`
	} `toml:"tracker"`
	Timeline struct {
		DebounceMS  *int   `toml:"debounce_ms"`
		MinItems    *int   `toml:"min_items"`
		Orientation string `toml:"orientation"`
	} `toml:"timeline"`
	Dates struct {
		Timezone     string   `toml:"timezone"`
		MonthLayout  string   `toml:"month_layout"`
		BannerLayout string   `toml:"banner_layout"`
		MonthNames   []string `toml:"month_names"`
	} `toml:"dates"`
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.apply(raw); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	setString(&c.APIBind, raw.APIBind)
	setString(&c.LogLevel, raw.LogLevel)
	if file := strings.TrimSpace(raw.LogFile); file != "" {
		c.LogFile = mustExpand(file)
	}
	if strings.TrimSpace(raw.EpochUnit) != "" {
		unit, err := catalog.ParseEpochUnit(raw.EpochUnit)
		if err != nil {
			return fmt.Errorf("epoch_unit: %w", err)
		}
		c.EpochUnit = unit
	}

	setString(&c.Left.Collection, raw.Left.Collection)
	setString(&c.Left.Filter, raw.Left.Filter)
	setString(&c.Right.Collection, raw.Right.Collection)
	setString(&c.Right.Filter, raw.Right.Filter)

	setInt(&c.Grid.Gap, raw.Grid.Gap)
	setInt(&c.Grid.OverscanRows, raw.Grid.OverscanRows)
	setInt(&c.Grid.ResetThreshold, raw.Grid.ResetThreshold)
	setInt(&c.Grid.ScrollbarReserve, raw.Grid.ScrollbarReserve)
	setInt(&c.Grid.DateStrip, raw.Grid.DateStrip)

	setMillis(&c.Tracker.Settle, raw.Tracker.SettleMS)
	setMillis(&c.Tracker.BannerHide, raw.Tracker.BannerMS)

	setMillis(&c.Timeline.Debounce, raw.Timeline.DebounceMS)
	setInt(&c.Timeline.MinItems, raw.Timeline.MinItems)
	if strings.TrimSpace(raw.Timeline.Orientation) != "" {
		orient, err := timeline.ParseOrientation(raw.Timeline.Orientation)
		if err != nil {
			return fmt.Errorf("timeline.orientation: %w", err)
		}
		c.Timeline.Orientation = orient
	}

	setString(&c.Dates.Timezone, raw.Dates.Timezone)
	setString(&c.Dates.MonthLayout, raw.Dates.MonthLayout)
	setString(&c.Dates.BannerLayout, raw.Dates.BannerLayout)
	if len(raw.Dates.MonthNames) > 0 {
		c.Dates.MonthNames = raw.Dates.MonthNames
	}
	return nil
}

// Validate rejects values the rest of the program cannot use.
func (c Config) Validate() error {
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	checks := []struct {
		name  string
		value int
	}{
		{"grid.gap", c.Grid.Gap},
		{"grid.overscan_rows", c.Grid.OverscanRows},
		{"grid.reset_threshold", c.Grid.ResetThreshold},
		{"grid.scrollbar_reserve", c.Grid.ScrollbarReserve},
		{"grid.date_strip", c.Grid.DateStrip},
		{"timeline.min_items", c.Timeline.MinItems},
	}
	for _, check := range checks {
		if check.value < 0 {
			return fmt.Errorf("%s: must not be negative, got %d", check.name, check.value)
		}
	}
	if c.Tracker.Settle <= 0 || c.Tracker.BannerHide <= 0 || c.Timeline.Debounce <= 0 {
		return fmt.Errorf("tracker and timeline durations must be positive")
	}
	if _, err := c.Formatter(); err != nil {
		return fmt.Errorf("dates: %w", err)
	}
	return nil
}

// Formatter builds the date formatter described by [dates].
func (c Config) Formatter() (datefmt.Formatter, error) {
	return datefmt.New(c.Dates.Timezone, c.Dates.MonthLayout, c.Dates.BannerLayout, c.Dates.MonthNames)
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func setString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func setInt(dst *int, value *int) {
	if value != nil {
		*dst = *value
	}
}

func setMillis(dst *time.Duration, value *int) {
	if value != nil {
		*dst = time.Duration(*value) * time.Millisecond
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
