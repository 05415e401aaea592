package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/1broseidon/tilebar/internal/geometry"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBarHeight       = 20
	DefaultFont            = "fixed"
	DefaultRefreshInterval = 200
	MinRefreshInterval     = 50
	DefaultReloadHotkey    = "Mod4-Mod1-b"
	DefaultClockFormat     = "15:04"
)

// DefaultBarColor is the bar background when none is configured.
const DefaultBarColor Color = 0x1f2933

// Kind names a component variant.
type Kind string

const (
	KindText       Kind = "text"
	KindClock      Kind = "clock"
	KindWorkspaces Kind = "workspaces"
	KindTitle      Kind = "title"
	KindLua        Kind = "lua"
)

var validKinds = []Kind{KindText, KindClock, KindWorkspaces, KindTitle, KindLua}

// Color is a 0xRRGGBB value written as "#rrggbb" in YAML.
type Color uint32

// ParseColor accepts "#rrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q (want #rrggbb)", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q (want #rrggbb)", s)
	}
	return Color(v), nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c))
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: color must be a string", value.Line)
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

// ComponentSpec configures one component instance.
type ComponentSpec struct {
	Kind       Kind   `yaml:"kind"`
	Text       string `yaml:"text,omitempty"`
	Format     string `yaml:"format,omitempty"`
	Fg         *Color `yaml:"fg,omitempty"`
	Bg         *Color `yaml:"bg,omitempty"`
	ActiveFg   *Color `yaml:"active_fg,omitempty"`
	ActiveBg   *Color `yaml:"active_bg,omitempty"`
	MaxWidth   int    `yaml:"max_width,omitempty"`
	OnClick    string `yaml:"on_click,omitempty"`
	Script     string `yaml:"script,omitempty"`
	ScriptFile string `yaml:"script_file,omitempty"`
}

// BarConfig holds bar window settings.
type BarConfig struct {
	Height            int    `yaml:"height"`
	Color             Color  `yaml:"color"`
	Font              string `yaml:"font"`
	Position          string `yaml:"position"`
	RefreshIntervalMs int    `yaml:"refresh_interval_ms"`
}

// ComponentsConfig holds the three ordered component lists.
type ComponentsConfig struct {
	Left   []ComponentSpec `yaml:"left"`
	Center []ComponentSpec `yaml:"center"`
	Right  []ComponentSpec `yaml:"right"`
}

// Config is the effective configuration after includes and defaults.
type Config struct {
	LogLevel      string           `yaml:"log_level"`
	LightTheme    bool             `yaml:"light_theme"`
	RedrawHotkey  string           `yaml:"redraw_hotkey"`
	ReloadHotkey  string           `yaml:"reload_hotkey"`
	MetricsListen string           `yaml:"metrics_listen"`
	WatchConfig   bool             `yaml:"watch_config"`
	Bar           BarConfig        `yaml:"bar"`
	Components    ComponentsConfig `yaml:"components"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "info",
		ReloadHotkey: DefaultReloadHotkey, // Super+Alt+B for "bar"
		Bar: BarConfig{
			Height:            DefaultBarHeight,
			Color:             DefaultBarColor,
			Font:              DefaultFont,
			Position:          string(geometry.Top),
			RefreshIntervalMs: DefaultRefreshInterval,
		},
		Components: ComponentsConfig{
			Left:   []ComponentSpec{{Kind: KindWorkspaces}, {Kind: KindTitle, MaxWidth: 60}},
			Center: []ComponentSpec{{Kind: KindClock, Format: DefaultClockFormat}},
		},
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tilebar", "config.yaml"), nil
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	if c == nil {
		return slog.LevelInfo
	}
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RefreshInterval returns the refresh period with defaults applied.
func (c *Config) RefreshInterval() time.Duration {
	if c == nil || c.Bar.RefreshIntervalMs <= 0 {
		return DefaultRefreshInterval * time.Millisecond
	}
	return time.Duration(c.Bar.RefreshIntervalMs) * time.Millisecond
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) Validate() error {
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Bar.Height <= 0 {
		return &ValidationError{Path: "bar.height", Err: fmt.Errorf("height must be > 0")}
	}
	if strings.TrimSpace(c.Bar.Font) == "" {
		return &ValidationError{Path: "bar.font", Err: fmt.Errorf("font is required")}
	}
	if _, err := geometry.ParsePosition(c.Bar.Position); err != nil {
		return &ValidationError{Path: "bar.position", Err: err}
	}
	if c.Bar.RefreshIntervalMs < MinRefreshInterval {
		return &ValidationError{Path: "bar.refresh_interval_ms", Err: fmt.Errorf("refresh_interval_ms must be >= %d", MinRefreshInterval)}
	}
	if c.MetricsListen != "" {
		if _, _, err := net.SplitHostPort(c.MetricsListen); err != nil {
			return &ValidationError{Path: "metrics_listen", Err: fmt.Errorf("metrics_listen must be host:port: %w", err)}
		}
	}

	sections := []struct {
		name  string
		specs []ComponentSpec
	}{
		{"left", c.Components.Left},
		{"center", c.Components.Center},
		{"right", c.Components.Right},
	}
	for _, section := range sections {
		for i, spec := range section.specs {
			if err := validateComponent(spec); err != nil {
				path := fmt.Sprintf("components.%s[%d]", section.name, i)
				if verr, ok := err.(*ValidationError); ok {
					verr.Path = path + "." + verr.Path
					return verr
				}
				return &ValidationError{Path: path, Err: err}
			}
		}
	}
	return nil
}

func validateComponent(spec ComponentSpec) error {
	known := false
	for _, k := range validKinds {
		if spec.Kind == k {
			known = true
			break
		}
	}
	if !known {
		return &ValidationError{Path: "kind", Err: fmt.Errorf("kind must be one of: text, clock, workspaces, title, lua")}
	}
	if spec.MaxWidth < 0 {
		return &ValidationError{Path: "max_width", Err: fmt.Errorf("max_width must be >= 0")}
	}

	switch spec.Kind {
	case KindText:
		if spec.Text == "" {
			return &ValidationError{Path: "text", Err: fmt.Errorf("text is required for kind text")}
		}
	case KindLua:
		hasInline := strings.TrimSpace(spec.Script) != ""
		hasFile := strings.TrimSpace(spec.ScriptFile) != ""
		if hasInline == hasFile {
			return &ValidationError{Path: "script", Err: fmt.Errorf("exactly one of script or script_file is required for kind lua")}
		}
	}
	if spec.OnClick != "" && spec.Kind != KindText {
		return &ValidationError{Path: "on_click", Err: fmt.Errorf("on_click is only supported for kind text")}
	}
	return nil
}
