package wm

// Op names the operation that changed the manager state.
type Op string

const (
	OpCreate      Op = "create"
	OpClose       Op = "close"
	OpFocus       Op = "focus"
	OpMaximize    Op = "maximize"
	OpMinimize    Op = "minimize"
	OpMove        Op = "move"
	OpResize      Op = "resize"
	OpTitle       Op = "title"
	OpContent     Op = "content"
	OpMarkSaved   Op = "mark-saved"
	OpMoveToGroup Op = "move-to-group"
	OpGroupCreate Op = "group-create"
	OpGroupUpdate Op = "group-update"
	OpGroupDelete Op = "group-delete"
	OpArrange     Op = "arrange"
	OpUndoArrange Op = "undo-arrange"
	OpIconAdd     Op = "icon-add"
	OpIconMove    Op = "icon-move"
	OpIconRemove  Op = "icon-remove"
	OpRestore     Op = "restore"
)

// Event describes a completed state change. Only the ids relevant to Op
// are set.
type Event struct {
	Op       Op
	WindowID int
	GroupID  string
	IconID   string
	// Detail carries an op-specific value: the layout mode for OpArrange,
	// the new title for OpTitle.
	Detail string
}

// Listener is called synchronously at the end of every mutating operation,
// after all invariants hold again.
type Listener func(Event)

type listenerEntry struct {
	id int
	fn Listener
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.nextListener++
	id := m.nextListener
	m.listeners = append(m.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) notify(ev Event) {
	for _, l := range m.listeners {
		l.fn(ev)
	}
}
