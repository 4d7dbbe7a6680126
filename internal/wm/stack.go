package wm

// DefaultBaseZIndex is the stacking counter of a fresh manager. The first
// window brought to front receives DefaultBaseZIndex+1.
const DefaultBaseZIndex = 100

// StackOrder hands out z-index values. The counter strictly increases, so
// two windows never share a z-index.
type StackOrder struct {
	counter int
}

// NewStackOrder returns a stack whose counter starts at base.
func NewStackOrder(base int) *StackOrder {
	if base <= 0 {
		base = DefaultBaseZIndex
	}
	return &StackOrder{counter: base}
}

// BringToFront increments the counter and assigns it to w.
func (s *StackOrder) BringToFront(w *Window) {
	s.counter++
	w.ZIndex = s.counter
}

// Current returns the highest z-index issued so far.
func (s *StackOrder) Current() int {
	return s.counter
}

func (s *StackOrder) reset(counter int) {
	s.counter = counter
}

// Topmost returns the window with the highest z-index among those accepted
// by eligible, or nil when none qualifies. A nil eligible accepts all.
func Topmost(windows []*Window, eligible func(*Window) bool) *Window {
	var top *Window
	for _, w := range windows {
		if eligible != nil && !eligible(w) {
			continue
		}
		if top == nil || w.ZIndex > top.ZIndex {
			top = w
		}
	}
	return top
}
