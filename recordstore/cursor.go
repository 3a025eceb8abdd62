package recordstore

type cursorState int

const (
	cursorUnseeked cursorState = iota
	cursorPositioned
	cursorAtEnd
)

// Cursor iterates a store in one direction. It takes the store lock only
// inside each call, never across calls; consistency across a suspension
// is the caller's business via Save and Restore.
type Cursor struct {
	data    *records
	forward bool
	capped  bool

	state   cursorState
	pos     RecordId
	saved   RecordId // NullId = no saved position, Restore lands at end
	pending bool     // Restore landed on pos, next Next returns it
}

// Next returns the record at the current position and advances. Past the
// last entry it settles at end-of-stream and keeps returning nothing
// until a fresh seek.
func (c *Cursor) Next() (Record, bool) {
	c.data.Lock()
	defer c.data.Unlock()

	var sl *slot
	var ok bool
	switch {
	case c.state == cursorAtEnd:
		return Record{}, false
	case c.state == cursorUnseeked:
		if c.forward {
			sl, ok = c.data.tree.Min()
		} else {
			sl, ok = c.data.tree.Max()
		}
	case c.pending:
		sl, ok = c.boundLocked(c.pos)
	default:
		if c.forward {
			sl, ok = c.boundLocked(c.pos + 1)
		} else {
			sl, ok = c.boundLocked(c.pos - 1)
		}
	}
	c.pending = false

	if !ok {
		c.state = cursorAtEnd
		return Record{}, false
	}
	c.state = cursorPositioned
	c.pos = sl.id
	return Record{Id: sl.id, Data: sl.data}, true
}

// boundLocked finds the first record at or after id in cursor direction.
func (c *Cursor) boundLocked(id RecordId) (found *slot, ok bool) {
	pivot := &slot{id: id}
	iter := func(sl *slot) bool {
		found, ok = sl, true
		return false
	}
	if c.forward {
		c.data.tree.AscendGreaterOrEqual(pivot, iter)
	} else {
		c.data.tree.DescendLessOrEqual(pivot, iter)
	}
	return
}

// SeekExact jumps directly to id. When absent it returns nothing and the
// cursor lands at end-of-stream.
func (c *Cursor) SeekExact(id RecordId) (Record, bool) {
	c.data.Lock()
	defer c.data.Unlock()

	c.pending = false
	sl, ok := c.data.tree.Get(&slot{id: id})
	if !ok {
		c.state = cursorAtEnd
		return Record{}, false
	}
	c.state = cursorPositioned
	c.pos = id
	return Record{Id: sl.id, Data: sl.data}, true
}

// Save records the key at the current position, or "none" when at end.
// Nothing is released; the cursor may keep iterating and save again.
func (c *Cursor) Save() {
	if c.state == cursorUnseeked || c.pending {
		// Nothing was handed out since the last Restore; the saved key
		// is still the one to resume from.
		return
	}
	if c.state == cursorAtEnd {
		c.saved = NullId
		return
	}
	c.saved = c.pos
}

// SaveUnpositioned discards the position; a later Restore resets to
// end-of-stream.
func (c *Cursor) SaveUnpositioned() {
	c.saved = NullId
}

// Restore relocates using the saved key: a forward cursor resumes at the
// first key at or above it, a reverse cursor at the first key at or
// below it, and the next call to Next returns the record landed on. The
// return value is false only when the saved record vanished from a
// capped store; such a cursor has fallen behind eviction and must not
// silently resume. Non-capped cursors resume at the nearest surviving
// key.
func (c *Cursor) Restore() bool {
	c.data.Lock()
	defer c.data.Unlock()

	if c.saved.IsNull() {
		c.state = cursorAtEnd
		c.pending = false
		return true
	}

	sl, ok := c.boundLocked(c.saved)
	if !ok {
		c.state = cursorAtEnd
		c.pending = false
		return !c.capped
	}
	c.state = cursorPositioned
	c.pos = sl.id
	c.pending = true
	return !(c.capped && sl.id != c.saved)
}
