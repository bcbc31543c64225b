package ui

// Domain is the logical list a selection index points into.
type Domain int

const (
	// DomainHistory indexes a cached history list.
	DomainHistory Domain = iota
	// DomainLive indexes the live daemon results.
	DomainLive
)

// Tracker owns the highlighted index and its transition rules. A selection is
// either unselected or an index tagged with the domain it refers to; the
// numeric value is always below the current mode's item count.
type Tracker struct {
	selected bool
	domain   Domain
	index    int
	offset   float64
}

// NewTracker returns a tracker in the unselected state.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Selected returns the current index, if any. Which list it refers to is
// resolved from the active mode at lookup time.
func (t *Tracker) Selected() (int, bool) {
	return t.index, t.selected
}

// Domain returns the domain tag of the current selection.
func (t *Tracker) Domain() Domain {
	return t.domain
}

// Offset is the proportional scroll position keeping the highlighted row
// visible, in [0, 1].
func (t *Tracker) Offset() float64 {
	return t.offset
}

// Reset clears the selection.
func (t *Tracker) Reset() {
	t.selected = false
	t.index = 0
	t.offset = 0
}

// ResetLive pre-selects the first live result. Used by the default search
// mode, where the daemon is expected to return at least one result.
func (t *Tracker) ResetLive() {
	t.selected = true
	t.domain = DomainLive
	t.index = 0
	t.offset = 0
}

// Down moves the selection one row down. From the unselected state it lands
// on index 0 in the history domain regardless of mode; an indexed selection
// advances only while a next row exists.
func (t *Tracker) Down(total int) {
	if !t.selected {
		t.selected = true
		t.domain = DomainHistory
		t.index = 0
		return
	}
	if total != 0 && t.index < total-1 {
		t.index++
		t.snap(total)
	}
}

// Up moves the selection one row up. Unselected stays unselected; index 0 is
// a no-op.
func (t *Tracker) Up(total int) {
	if t.selected && t.index > 0 {
		t.index--
	}
	t.snap(total)
}

// snap recomputes the proportional offset so the highlighted row stays
// visible: (line + 1) / total, with line 0 pinned to the top.
func (t *Tracker) snap(total int) {
	if !t.selected || total <= 0 {
		t.offset = 0
		return
	}
	line := t.index
	if line != 0 {
		line++
	}
	t.offset = float64(line) / float64(total)
}
