package wm

import (
	"strconv"
	"strings"
)

const groupIDPrefix = "group-"

// IdentityAllocator issues window and group identifiers. Identifiers are
// never reused, even after the window or group is deleted.
type IdentityAllocator struct {
	nextWindow int
	nextGroup  int
}

// NewIdentityAllocator returns an allocator whose first window id and first
// group sequence number are both 1.
func NewIdentityAllocator() *IdentityAllocator {
	return &IdentityAllocator{nextWindow: 1, nextGroup: 1}
}

// NextWindowID returns the next unused window id.
func (a *IdentityAllocator) NextWindowID() int {
	id := a.nextWindow
	a.nextWindow++
	return id
}

// NextGroupID returns the next unused group id ("group-N").
func (a *IdentityAllocator) NextGroupID() string {
	n := a.nextGroup
	a.nextGroup++
	return groupIDPrefix + strconv.Itoa(n)
}

// Counters reports the values the next calls would consume.
func (a *IdentityAllocator) Counters() (nextWindow, nextGroup int) {
	return a.nextWindow, a.nextGroup
}

func (a *IdentityAllocator) reset(nextWindow, nextGroup int) {
	a.nextWindow = nextWindow
	a.nextGroup = nextGroup
}

// groupSequence extracts N from "group-N"; ok is false for any other shape.
func groupSequence(id string) (int, bool) {
	if !strings.HasPrefix(id, groupIDPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, groupIDPrefix))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
