package recordstore

// RecordId identifies one record within a single store's namespace. Ids
// are strictly positive and ordered; NullId marks "no record" and, for
// oplog stores, the beginning of the log.
type RecordId int64

const NullId RecordId = 0

func (id RecordId) IsNull() bool {
	return id == NullId
}

// Record is an opaque byte payload at a location.
type Record struct {
	Id   RecordId
	Data []byte
}

func (r Record) Size() int64 {
	return int64(len(r.Data))
}

// slot is the tree entry. The data slice is replaced, never mutated in
// place, so a slice handed out under the lock stays valid after it.
type slot struct {
	id   RecordId
	data []byte
}

func lessSlot(a, b *slot) bool {
	return a.id < b.id
}
