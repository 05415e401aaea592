package bar

import "github.com/1broseidon/tilebar/internal/platform"

// Event is a message processed by the compositor loop.
type Event interface {
	Kind() string
}

// Create asks for a bar on a display.
type Create struct {
	Display platform.Display
}

// Close reports that a bar window is gone.
type Close struct {
	Window platform.WindowID
}

// Clicked reports a button press at bar-local x.
type Clicked struct {
	Window  platform.WindowID
	X       int
	Display platform.Display
}

// PointerMoved reports pointer motion at bar-local x.
type PointerMoved struct {
	Window  platform.WindowID
	X       int
	Display platform.Display
}

// DrawRequested asks for one bar to be redrawn, typically after exposure.
type DrawRequested struct {
	Window  platform.WindowID
	Display platform.Display
}

// RedrawAll fans a redraw out to every bar.
type RedrawAll struct{}

// UpdateComponents replaces settings and component lists, then redraws.
type UpdateComponents struct {
	Settings   Settings
	Components Components
}

type statusQuery struct {
	reply chan Status
}

func (Create) Kind() string           { return "create" }
func (Close) Kind() string            { return "close" }
func (Clicked) Kind() string          { return "click" }
func (PointerMoved) Kind() string     { return "pointer_move" }
func (DrawRequested) Kind() string    { return "draw" }
func (RedrawAll) Kind() string        { return "redraw_all" }
func (UpdateComponents) Kind() string { return "update_components" }
func (statusQuery) Kind() string      { return "status" }

// Status is a snapshot of the registry taken by the loop.
type Status struct {
	Bars []BarStatus `json:"bars"`
}

// BarStatus describes one registered bar.
type BarStatus struct {
	Window  platform.WindowID `json:"window"`
	Display int               `json:"display"`
	Name    string            `json:"name"`
	Width   int               `json:"width"`
	Left    Span              `json:"left"`
	Center  Span              `json:"center"`
	Right   Span              `json:"right"`
	Frames  uint64            `json:"frames"`
}
