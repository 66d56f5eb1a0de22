// Package focus tracks which part of the window owns keyboard input.
package focus

import "github.com/javanhut/RavenPanel/tab"

// Kind is the type of focus owner.
type Kind uint8

const (
	KindNone Kind = iota
	KindPane
	KindPicker
	KindWidget // something outside the panel, such as an editor
)

// Target is a focus owner. Pane is set for KindPane, Widget names the main
// area widget for KindWidget.
type Target struct {
	Kind   Kind
	Pane   tab.PaneID
	Widget string
}

// PaneTarget returns the target for a terminal pane.
func PaneTarget(id tab.PaneID) Target { return Target{Kind: KindPane, Pane: id} }

// WidgetTarget returns the target for a main-area widget.
func WidgetTarget(name string) Target { return Target{Kind: KindWidget, Widget: name} }

// PickerTarget is the profile picker.
var PickerTarget = Target{Kind: KindPicker}

// Area is the region of the window that holds focus.
type Area uint8

const (
	AreaMain Area = iota
	AreaTerminal
)

// Router records the focus owner and the main-area target to return to when
// the terminal panel gives focus up.
type Router struct {
	owner        Target
	area         Area
	previousMain Target
}

// NewRouter starts with focus on main.
func NewRouter(main Target) *Router {
	return &Router{owner: main, area: AreaMain, previousMain: main}
}

func (r *Router) Owner() Target { return r.owner }
func (r *Router) Area() Area    { return r.area }

// PreviousMain is the target RestorePrevious returns to.
func (r *Router) PreviousMain() Target { return r.previousMain }

// Set moves focus to t and returns the previous owner.
func (r *Router) Set(t Target) Target {
	prev := r.owner
	r.owner = t
	if t.Kind == KindWidget {
		r.area = AreaMain
		r.previousMain = t
	}
	return prev
}

// FocusPane gives focus to a terminal pane.
func (r *Router) FocusPane(id tab.PaneID) Target {
	prev := r.Set(PaneTarget(id))
	r.area = AreaTerminal
	return prev
}

// FocusMain focuses a main-area widget and remembers it for RestorePrevious.
func (r *Router) FocusMain(widget string) Target {
	return r.Set(WidgetTarget(widget))
}

// FocusPicker gives focus to the profile picker.
func (r *Router) FocusPicker() Target {
	prev := r.Set(PickerTarget)
	r.area = AreaTerminal
	return prev
}

// RestorePrevious returns focus to the last main-area target.
func (r *Router) RestorePrevious() Target {
	prev := r.owner
	r.owner = r.previousMain
	r.area = AreaMain
	return prev
}

// HasPane reports whether the given pane owns focus.
func (r *Router) HasPane(id tab.PaneID) bool {
	return r.owner.Kind == KindPane && r.owner.Pane == id
}
