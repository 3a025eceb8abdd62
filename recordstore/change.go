package recordstore

import (
	"github.com/google/btree"
)

// insertChange undoes one insert. Rollback runs in reverse registration
// order, so any later eviction or delete of the same record has already
// been restored by the time this runs; the record must be present.
type insertChange struct {
	data *records
	id   RecordId
}

func (c *insertChange) Commit() {}

func (c *insertChange) Rollback() {
	c.data.Lock()
	defer c.data.Unlock()

	sl, ok := c.data.tree.Delete(&slot{id: c.id})
	invariant(ok, "recordstore: rollback of insert %d found no record", c.id)
	c.data.dataSize -= int64(len(sl.data))
}

// removeChange undoes a delete or an update by putting the captured
// payload back.
type removeChange struct {
	data *records
	id   RecordId
	rec  []byte
}

func (c *removeChange) Commit() {}

func (c *removeChange) Rollback() {
	c.data.Lock()
	defer c.data.Unlock()

	if sl, ok := c.data.tree.Get(&slot{id: c.id}); ok {
		c.data.dataSize -= int64(len(sl.data))
		sl.data = c.rec
	} else {
		c.data.tree.ReplaceOrInsert(&slot{id: c.id, data: c.rec})
	}
	c.data.dataSize += int64(len(c.rec))
}

// truncateChange keeps the pre-truncate tree and size alive until the
// transaction resolves; rollback is a second O(1) swap.
type truncateChange struct {
	data     *records
	tree     *btree.BTreeG[*slot]
	dataSize int64
}

func (c *truncateChange) Commit() {}

func (c *truncateChange) Rollback() {
	c.data.Lock()
	defer c.data.Unlock()

	c.data.tree, c.tree = c.tree, c.data.tree
	c.data.dataSize, c.dataSize = c.dataSize, c.data.dataSize
}
