package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawBar struct {
	Height            *int    `yaml:"height"`
	Color             *Color  `yaml:"color"`
	Font              *string `yaml:"font"`
	Position          *string `yaml:"position"`
	RefreshIntervalMs *int    `yaml:"refresh_interval_ms"`
}

// RawComponents replaces a whole list when the key is present, so a later
// file can clear a section with an empty list.
type RawComponents struct {
	Left   *[]ComponentSpec `yaml:"left"`
	Center *[]ComponentSpec `yaml:"center"`
	Right  *[]ComponentSpec `yaml:"right"`
}

// RawConfig is one YAML file before defaults are applied. Nil means "not set".
type RawConfig struct {
	Include       IncludeList    `yaml:"include"`
	LogLevel      *string        `yaml:"log_level"`
	LightTheme    *bool          `yaml:"light_theme"`
	RedrawHotkey  *string        `yaml:"redraw_hotkey"`
	ReloadHotkey  *string        `yaml:"reload_hotkey"`
	MetricsListen *string        `yaml:"metrics_listen"`
	WatchConfig   *bool          `yaml:"watch_config"`
	Bar           *RawBar        `yaml:"bar"`
	Components    *RawComponents `yaml:"components"`
}

func (r RawConfig) merge(other RawConfig) RawConfig {
	out := r
	out.Include = nil

	if other.LogLevel != nil {
		out.LogLevel = other.LogLevel
	}
	if other.LightTheme != nil {
		out.LightTheme = other.LightTheme
	}
	if other.RedrawHotkey != nil {
		out.RedrawHotkey = other.RedrawHotkey
	}
	if other.ReloadHotkey != nil {
		out.ReloadHotkey = other.ReloadHotkey
	}
	if other.MetricsListen != nil {
		out.MetricsListen = other.MetricsListen
	}
	if other.WatchConfig != nil {
		out.WatchConfig = other.WatchConfig
	}
	if other.Bar != nil {
		merged := mergeRawBar(out.Bar, other.Bar)
		out.Bar = &merged
	}
	if other.Components != nil {
		merged := mergeRawComponents(out.Components, other.Components)
		out.Components = &merged
	}
	return out
}

func mergeRawBar(base, over *RawBar) RawBar {
	var out RawBar
	if base != nil {
		out = *base
	}
	if over.Height != nil {
		out.Height = over.Height
	}
	if over.Color != nil {
		out.Color = over.Color
	}
	if over.Font != nil {
		out.Font = over.Font
	}
	if over.Position != nil {
		out.Position = over.Position
	}
	if over.RefreshIntervalMs != nil {
		out.RefreshIntervalMs = over.RefreshIntervalMs
	}
	return out
}

func mergeRawComponents(base, over *RawComponents) RawComponents {
	var out RawComponents
	if base != nil {
		out = *base
	}
	if over.Left != nil {
		out.Left = over.Left
	}
	if over.Center != nil {
		out.Center = over.Center
	}
	if over.Right != nil {
		out.Right = over.Right
	}
	return out
}
