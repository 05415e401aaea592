package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleBarStatus(_ context.Context, _ *mcpsdk.CallToolRequest, args BarStatusInput) (*mcpsdk.CallToolResult, BarStatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, BarStatusOutput{}, fmt.Errorf("failed to query daemon: %w", err)
	}

	out := BarStatusOutput{
		Running:       st.DaemonRunning,
		UptimeSeconds: st.UptimeSeconds,
		BarCount:      st.BarCount,
		Bars:          st.Bars,
	}

	if args.IncludeDisplays {
		ds, err := s.daemon.GetDisplays()
		if err != nil {
			return nil, BarStatusOutput{}, fmt.Errorf("failed to list displays: %w", err)
		}
		for _, d := range ds.Displays {
			out.Displays = append(out.Displays, DisplayInfo{
				ID:           d.ID,
				Name:         d.Name,
				Width:        d.Width,
				Height:       d.Height,
				UsableWidth:  d.UsableWidth,
				UsableHeight: d.UsableHeight,
				DPI:          d.DPI,
			})
		}
	}
	return nil, out, nil
}

func (s *Server) handleRedrawBars(_ context.Context, _ *mcpsdk.CallToolRequest, _ RedrawBarsInput) (*mcpsdk.CallToolResult, RedrawBarsOutput, error) {
	if err := s.daemon.Redraw(); err != nil {
		return nil, RedrawBarsOutput{}, fmt.Errorf("failed to request redraw: %w", err)
	}
	return nil, RedrawBarsOutput{Requested: true}, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, ReloadConfigOutput, error) {
	if err := s.daemon.Reload(); err != nil {
		return nil, ReloadConfigOutput{}, fmt.Errorf("failed to reload config: %w", err)
	}

	out := ReloadConfigOutput{Reloaded: true}
	// Bars may have been recreated; report the count after the swap.
	if st, err := s.daemon.GetStatus(); err == nil {
		out.BarCount = st.BarCount
	}
	return nil, out, nil
}
