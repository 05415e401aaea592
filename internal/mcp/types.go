package mcp

import "github.com/1broseidon/tilebar/internal/bar"

// BarStatusInput is the input for the bar_status tool.
type BarStatusInput struct {
	IncludeDisplays bool `json:"include_displays,omitempty" jsonschema:"When true, also report every display with its usable area and DPI"`
}

// DisplayInfo describes one display.
type DisplayInfo struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	UsableWidth  int    `json:"usable_width"`
	UsableHeight int    `json:"usable_height"`
	DPI          int    `json:"dpi"`
}

// BarStatusOutput is the output for the bar_status tool.
type BarStatusOutput struct {
	Running       bool            `json:"running"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	BarCount      int             `json:"bar_count"`
	Bars          []bar.BarStatus `json:"bars"`
	Displays      []DisplayInfo   `json:"displays,omitempty"`
}

// RedrawBarsInput is the input for the redraw_bars tool.
type RedrawBarsInput struct{}

// RedrawBarsOutput is the output for the redraw_bars tool.
type RedrawBarsOutput struct {
	Requested bool `json:"requested"`
}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}

// ReloadConfigOutput is the output for the reload_config tool.
type ReloadConfigOutput struct {
	Reloaded bool `json:"reloaded"`
	BarCount int  `json:"bar_count"`
}
