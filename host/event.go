// Package host describes the application lifecycle as a stream of tagged
// events and dispatches them to registered callbacks.
package host

import (
	"fmt"
	"time"
)

type Kind int

const (
	SurfaceCreated Kind = iota + 1
	SurfaceDestroyed
	SurfaceResized
	RedrawNeeded
	Tick

	Start
	Resume
	Pause
	Stop
	FocusGained
	FocusLost
	LowMemory
	Quit
)

var kindNames = map[Kind]string{
	SurfaceCreated:   "SurfaceCreated",
	SurfaceDestroyed: "SurfaceDestroyed",
	SurfaceResized:   "SurfaceResized",
	RedrawNeeded:     "RedrawNeeded",
	Tick:             "Tick",
	Start:            "Start",
	Resume:           "Resume",
	Pause:            "Pause",
	Stop:             "Stop",
	FocusGained:      "FocusGained",
	FocusLost:        "FocusLost",
	LowMemory:        "LowMemory",
	Quit:             "Quit",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return name
}

type Event struct {
	Kind Kind

	// Elapsed is the time since the previous Tick. Only set on Tick.
	Elapsed time.Duration
}

// Wait hints for the host's event wait, in milliseconds.
const (
	WaitPoll  = 0
	WaitBlock = -1
)

// TickWaiter is implemented by hosts whose event wait can be tuned. A
// renderer asks for WaitPoll while it has a surface to draw and WaitBlock
// otherwise.
type TickWaiter interface {
	SetTickWaitHint(ms int)
}
