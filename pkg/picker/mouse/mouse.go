// Package mouse maps terminal mouse events onto named screen regions.
//
// Views register a region for every clickable element while rendering, then
// Update asks the Handler which region an event landed on. Regions added
// later take priority, so a full-screen backdrop is registered first and the
// widgets drawn over it afterwards.
package mouse

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Rect is a screen rectangle in cells. W and H are exclusive bounds.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named hit area with optional payload.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions of the last rendered frame.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty HitMap.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region.
func (h *HitMap) Add(r Region) {
	h.regions = append(h.regions, r)
}

// AddRect registers a region from coordinates.
func (h *HitMap) AddRect(id string, x, y, w, h2 int, data any) {
	h.Add(Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: h2}, Data: data})
}

// Test returns the topmost region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			r := h.regions[i]
			return &r
		}
	}
	return nil
}

// Clear removes every region. Views call it at the start of each frame.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Regions returns the registered regions in insertion order.
func (h *HitMap) Regions() []Region {
	return h.regions
}

// ActionType classifies a mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionHover
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
)

func (a ActionType) String() string {
	switch a {
	case ActionClick:
		return "click"
	case ActionHover:
		return "hover"
	case ActionScrollUp:
		return "scroll-up"
	case ActionScrollDown:
		return "scroll-down"
	case ActionScrollLeft:
		return "scroll-left"
	case ActionScrollRight:
		return "scroll-right"
	default:
		return "none"
	}
}

// Action is a mouse event resolved against the hit map. Region is nil when
// the event landed outside every region.
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
}

// Handler resolves tea.MouseMsg values against a HitMap and remembers which
// region the pointer is over.
type Handler struct {
	HitMap  *HitMap
	hovered string
}

// NewHandler returns a Handler with an empty HitMap.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// HandleMouse classifies msg. Shift+wheel scrolls horizontally. Releases and
// buttons other than the left one are ignored.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	region := h.HitMap.Test(msg.X, msg.Y)
	a := Action{Region: region, X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionMotion:
		a.Type = ActionHover
		h.hovered = ""
		if region != nil {
			h.hovered = region.ID
		}
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			a.Type = ActionClick
		case tea.MouseButtonWheelUp:
			a.Type = ActionScrollUp
			if msg.Shift {
				a.Type = ActionScrollLeft
			}
		case tea.MouseButtonWheelDown:
			a.Type = ActionScrollDown
			if msg.Shift {
				a.Type = ActionScrollRight
			}
		case tea.MouseButtonWheelLeft:
			a.Type = ActionScrollLeft
		case tea.MouseButtonWheelRight:
			a.Type = ActionScrollRight
		}
	}
	return a
}

// Hovered returns the ID of the region under the pointer after the last
// motion event.
func (h *Handler) Hovered() string {
	return h.hovered
}

// Clear drops all regions and the hover state.
func (h *Handler) Clear() {
	h.HitMap.Clear()
	h.hovered = ""
}
