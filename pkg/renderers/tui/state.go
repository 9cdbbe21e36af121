package tui

// History tracks visited node identities for back navigation. The zero value
// is empty and ready to use.
type History struct {
	entries []string
}

// NewHistory seeds the history with start when it is non-empty.
func NewHistory(start string) *History {
	h := &History{}
	h.Push(start)
	return h
}

// Push records id as the current node. Revisiting the current node is a
// no-op so reloads do not grow the stack.
func (h *History) Push(id string) {
	if h == nil || id == "" {
		return
	}
	if current, ok := h.Current(); ok && current == id {
		return
	}
	h.entries = append(h.entries, id)
}

// Current returns the node on top of the stack.
func (h *History) Current() (string, bool) {
	if h == nil || len(h.entries) == 0 {
		return "", false
	}
	return h.entries[len(h.entries)-1], true
}

// CanGoBack reports whether Back would move anywhere.
func (h *History) CanGoBack() bool {
	return h != nil && len(h.entries) > 1
}

// Back pops the current node and returns the previous one. The first entry
// is never popped.
func (h *History) Back() (string, bool) {
	if !h.CanGoBack() {
		return h.Current()
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.Current()
}

// Len reports the number of entries.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.entries...)
}
