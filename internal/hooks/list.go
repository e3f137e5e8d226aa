package hooks

// noIndex marks the end of the list, and an exhausted dispatch cursor.
const noIndex = -1

// anonymousLabel is how the filesystem hook is named in messages.
const anonymousLabel = "hooks directory"

// Hook is one executable unit attached to an event. A hook with an empty Name
// is the filesystem hook found in the hooks directory; configured hooks have a
// Name and their command is looked up when they are dispatched.
type Hook struct {
	Name string
	Path string

	feed feedCursor
}

// Anonymous reports whether the hook comes from the hooks directory.
func (h *Hook) Anonymous() bool {
	return h.Name == ""
}

// Label returns the hook's name, or "hooks directory" for the filesystem hook.
func (h *Hook) Label() string {
	if h.Anonymous() {
		return anonymousLabel
	}
	return h.Name
}

type node struct {
	hook       Hook
	prev, next int
}

// List holds the hooks for one event in execution order. Hooks live in an
// arena and are ordered by explicit links between arena indices, so moving a
// hook to the tail is O(1) and indices stay valid while a run walks the list.
//
// A List holds at most one hook per name and at most one anonymous hook, which
// is always last.
type List struct {
	nodes  []node
	head   int
	tail   int
	byName map[string]int
	anon   int
}

// NewList returns an empty List.
func NewList() *List {
	return &List{
		head:   noIndex,
		tail:   noIndex,
		anon:   noIndex,
		byName: make(map[string]int),
	}
}

// Len returns the number of hooks in the list.
func (l *List) Len() int {
	return len(l.nodes)
}

// First returns the index of the first hook, or -1 if the list is empty.
func (l *List) First() int {
	return l.head
}

// Next returns the index after idx, or -1 at the end of the list.
func (l *List) Next(idx int) int {
	return l.nodes[idx].next
}

// At returns the hook stored at idx.
func (l *List) At(idx int) *Hook {
	return &l.nodes[idx].hook
}

// AppendOrMoveToTail appends a configured hook, or moves an existing hook with
// the same name to the end. The anonymous hook stays after it.
func (l *List) AppendOrMoveToTail(name string) {
	idx, ok := l.byName[name]
	if ok {
		l.unlink(idx)
	} else {
		idx = l.alloc(Hook{Name: name})
		l.byName[name] = idx
	}

	if l.anon != noIndex {
		l.linkBefore(idx, l.anon)
		return
	}
	l.linkTail(idx)
}

// SetDefault records the filesystem hook at path and places it last.
func (l *List) SetDefault(path string) {
	if l.anon != noIndex {
		l.nodes[l.anon].hook.Path = path
		l.unlink(l.anon)
		l.linkTail(l.anon)
		return
	}
	l.anon = l.alloc(Hook{Path: path})
	l.linkTail(l.anon)
}

// Hooks returns the hooks in order.
func (l *List) Hooks() []*Hook {
	hooks := make([]*Hook, 0, l.Len())
	for idx := l.head; idx != noIndex; idx = l.nodes[idx].next {
		hooks = append(hooks, &l.nodes[idx].hook)
	}
	return hooks
}

// Names returns each hook's name in order, with the filesystem hook shown as
// its path.
func (l *List) Names() []string {
	names := make([]string, 0, l.Len())
	for _, hook := range l.Hooks() {
		if hook.Anonymous() {
			names = append(names, hook.Path)
			continue
		}
		names = append(names, hook.Name)
	}
	return names
}

func (l *List) alloc(hook Hook) int {
	l.nodes = append(l.nodes, node{hook: hook, prev: noIndex, next: noIndex})
	return len(l.nodes) - 1
}

func (l *List) unlink(idx int) {
	n := &l.nodes[idx]
	if n.prev != noIndex {
		l.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != noIndex {
		l.nodes[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = noIndex, noIndex
}

func (l *List) linkTail(idx int) {
	n := &l.nodes[idx]
	n.prev = l.tail
	n.next = noIndex
	if l.tail != noIndex {
		l.nodes[l.tail].next = idx
	} else {
		l.head = idx
	}
	l.tail = idx
}

func (l *List) linkBefore(idx, before int) {
	n := &l.nodes[idx]
	b := &l.nodes[before]
	n.prev = b.prev
	n.next = before
	if b.prev != noIndex {
		l.nodes[b.prev].next = idx
	} else {
		l.head = idx
	}
	b.prev = idx
}
