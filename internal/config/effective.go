package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw overrides on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LightTheme != nil {
		cfg.LightTheme = *raw.LightTheme
	}
	if raw.RedrawHotkey != nil {
		cfg.RedrawHotkey = *raw.RedrawHotkey
	}
	if raw.ReloadHotkey != nil {
		cfg.ReloadHotkey = *raw.ReloadHotkey
	}
	if raw.MetricsListen != nil {
		cfg.MetricsListen = *raw.MetricsListen
	}
	if raw.WatchConfig != nil {
		cfg.WatchConfig = *raw.WatchConfig
	}

	if b := raw.Bar; b != nil {
		if b.Height != nil {
			cfg.Bar.Height = *b.Height
		}
		if b.Color != nil {
			cfg.Bar.Color = *b.Color
		}
		if b.Font != nil {
			cfg.Bar.Font = *b.Font
		}
		if b.Position != nil {
			cfg.Bar.Position = *b.Position
		}
		if b.RefreshIntervalMs != nil {
			cfg.Bar.RefreshIntervalMs = *b.RefreshIntervalMs
		}
	}

	if c := raw.Components; c != nil {
		if c.Left != nil {
			cfg.Components.Left = *c.Left
		}
		if c.Center != nil {
			cfg.Components.Center = *c.Center
		}
		if c.Right != nil {
			cfg.Components.Right = *c.Right
		}
	}

	return cfg
}
