package demo

import (
	"github.com/rs/zerolog"

	"github.com/bnema/undock/pkg/dock"
)

// demoBackend stands in for the window system. The bridge keeps the
// placements; the backend only remembers what the "OS" would be doing
// so the model can emulate it: native moves follow the pointer, focus
// and closes land in the status line.
type demoBackend struct {
	log        zerolog.Logger
	nativeMove dock.ViewportID
	focused    dock.ViewportID
	lastEvent  string
}

func newDemoBackend(log zerolog.Logger) *demoBackend {
	return &demoBackend{log: log}
}

func (d *demoBackend) CreateWindow(id dock.ViewportID, p dock.WindowPlacement) error {
	d.log.Debug().Str("viewport", string(id)).Str("title", p.Title).Msg("window created")
	d.lastEvent = "created " + string(id)
	return nil
}

func (d *demoBackend) UpdateWindow(id dock.ViewportID, p dock.WindowPlacement) error {
	d.log.Debug().Str("viewport", string(id)).Msg("window updated")
	return nil
}

func (d *demoBackend) BeginNativeMove(id dock.ViewportID) error {
	d.nativeMove = id
	return nil
}

func (d *demoBackend) CloseWindow(id dock.ViewportID) error {
	d.log.Debug().Str("viewport", string(id)).Msg("window closed")
	if d.nativeMove == id {
		d.nativeMove = ""
	}
	if d.focused == id {
		d.focused = ""
	}
	d.lastEvent = "closed " + string(id)
	return nil
}

func (d *demoBackend) Focus(id dock.ViewportID) error {
	d.focused = id
	return nil
}
