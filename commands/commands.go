// Package commands carries panel commands as values from input handlers,
// header clicks and key bindings to the panel's update loop.
package commands

import (
	"context"
	"fmt"
	"sync"

	"pkt.systems/pslog"

	"github.com/javanhut/RavenPanel/focus"
	"github.com/javanhut/RavenPanel/tab"
)

// Intent is a request for the panel to change its structure or focus.
type Intent interface {
	intent()
	fmt.Stringer
}

// IntentOpenTab opens a tab with the default profile.
type IntentOpenTab struct{}

// IntentCloseTab closes a tab and every pane in it.
type IntentCloseTab struct{ Tab tab.TabID }

// IntentSplit splits a pane; Horizontal stacks the new pane below.
type IntentSplit struct {
	Pane       tab.PaneID
	Horizontal bool
}

// IntentFocus moves focus.
type IntentFocus struct{ Target focus.Target }

// IntentShowSearch opens the search bar.
type IntentShowSearch struct{}

// IntentClosePane closes one pane.
type IntentClosePane struct{ Pane tab.PaneID }

// IntentShowProfiles opens the profile picker.
type IntentShowProfiles struct{}

// IntentOpenProfile opens a tab running the named profile.
type IntentOpenProfile struct{ Profile string }

func (IntentOpenTab) intent()      {}
func (IntentCloseTab) intent()     {}
func (IntentSplit) intent()        {}
func (IntentFocus) intent()        {}
func (IntentShowSearch) intent()   {}
func (IntentClosePane) intent()    {}
func (IntentShowProfiles) intent() {}
func (IntentOpenProfile) intent()  {}

func (IntentOpenTab) String() string       { return "open-tab" }
func (i IntentCloseTab) String() string    { return fmt.Sprintf("close-tab %d", i.Tab) }
func (IntentShowSearch) String() string    { return "show-search" }
func (i IntentClosePane) String() string   { return fmt.Sprintf("close-pane %d", i.Pane) }
func (IntentShowProfiles) String() string  { return "show-profiles" }
func (i IntentOpenProfile) String() string { return "open-profile " + i.Profile }
func (i IntentFocus) String() string       { return fmt.Sprintf("focus %+v", i.Target) }
func (i IntentSplit) String() string {
	if i.Horizontal {
		return fmt.Sprintf("split-horizontal %d", i.Pane)
	}
	return fmt.Sprintf("split-vertical %d", i.Pane)
}

// DefaultDepth is the queue size of a Bus.
const DefaultDepth = 64

// Bus queues intents for a single consumer. Dispatch never blocks; intents
// beyond the queue depth are dropped.
type Bus struct {
	mu     sync.Mutex
	ch     chan Intent
	closed bool
	log    pslog.Logger
}

// NewBus constructs a Bus.
func NewBus(logger pslog.Logger, depth int) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Bus{ch: make(chan Intent, depth), log: logger}
}

// Dispatch queues an intent. It reports false when the intent was dropped.
func (b *Bus) Dispatch(i Intent) bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	select {
	case b.ch <- i:
		return true
	default:
		b.log.Trace("intent dropped", "intent", i.String())
		return false
	}
}

// Drain returns the queued intents in dispatch order without blocking.
func (b *Bus) Drain() []Intent {
	if b == nil {
		return nil
	}
	var out []Intent
	for {
		select {
		case i, ok := <-b.ch:
			if !ok {
				return out
			}
			out = append(out, i)
		default:
			return out
		}
	}
}

// C exposes the queue for consumers that select on it.
func (b *Bus) C() <-chan Intent { return b.ch }

// Close stops the bus; later dispatches are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
}
