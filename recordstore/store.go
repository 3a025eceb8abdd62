package recordstore

import (
	"fmt"
	"sync"

	"github.com/google/btree"

	"github.com/TrellixVulnTeam/bsonview-6DWM/transaction"
)

const btreeDegree = 32

// CappedCallback is invoked synchronously before each capped eviction.
// Returning an error vetoes the eviction and aborts the whole store
// operation that triggered it.
type CappedCallback interface {
	AboutToDeleteCapped(id RecordId, data []byte) error
}

// KeyExtractor derives the ordering key of an oplog record from its raw
// payload.
type KeyExtractor interface {
	ExtractKey(data []byte) (RecordId, error)
}

type Options struct {
	Capped        bool
	CappedMaxSize int64 // bytes, required when Capped
	CappedMaxDocs int64 // optional document ceiling, 0 = none
	Oplog         bool
	Callback      CappedCallback // optional, consulted before evictions
	Extractor     KeyExtractor   // required when Oplog
}

// records is the state shared between a store and the changes registered
// against transactions. Changes may outlive any single operation, so
// they hold this struct rather than the store.
type records struct {
	sync.Mutex
	tree     *btree.BTreeG[*slot]
	dataSize int64
	nextId   RecordId
}

// Store is an ordered map from RecordId to payload bytes with undo-log
// mutations. One instance exists per collection until it is dropped.
type Store struct {
	name string
	opts Options
	data *records
}

func New(name string, opts Options) (*Store, error) {
	if opts.Capped {
		if opts.CappedMaxSize <= 0 {
			return nil, fmt.Errorf("store '%s': capped store requires cappedMaxSize > 0", name)
		}
		if opts.CappedMaxDocs < 0 {
			return nil, fmt.Errorf("store '%s': cappedMaxDocs must not be negative", name)
		}
	} else if opts.CappedMaxSize != 0 || opts.CappedMaxDocs != 0 {
		return nil, fmt.Errorf("store '%s': capped ceilings on a non-capped store", name)
	}
	if opts.Oplog && opts.Extractor == nil {
		return nil, fmt.Errorf("store '%s': oplog store requires a key extractor", name)
	}

	return &Store{
		name: name,
		opts: opts,
		data: &records{
			tree:   btree.NewG(btreeDegree, lessSlot),
			nextId: 1,
		},
	}, nil
}

func (s *Store) Name() string {
	return s.name
}

func (s *Store) IsCapped() bool {
	return s.opts.Capped
}

func (s *Store) IsOplog() bool {
	return s.opts.Oplog
}

func (s *Store) NumRecords() int64 {
	s.data.Lock()
	defer s.data.Unlock()
	return int64(s.data.tree.Len())
}

func (s *Store) StorageSize() int64 {
	s.data.Lock()
	defer s.data.Unlock()
	return s.data.dataSize
}

type Stats struct {
	Capped        bool
	CappedMaxSize int64
	CappedMaxDocs int64
	Oplog         bool
	NumRecords    int64
	DataSize      int64
}

func (s *Store) Stats() Stats {
	s.data.Lock()
	defer s.data.Unlock()
	return Stats{
		Capped:        s.opts.Capped,
		CappedMaxSize: s.opts.CappedMaxSize,
		CappedMaxDocs: s.opts.CappedMaxDocs,
		Oplog:         s.opts.Oplog,
		NumRecords:    int64(s.data.tree.Len()),
		DataSize:      s.data.dataSize,
	}
}

// DataFor returns the payload at id. Calling it with an absent id is a
// caller contract violation; use FindRecord when existence is uncertain.
func (s *Store) DataFor(id RecordId) []byte {
	s.data.Lock()
	defer s.data.Unlock()
	return s.recordForLocked(id).data
}

func (s *Store) recordForLocked(id RecordId) *slot {
	sl, ok := s.data.tree.Get(&slot{id: id})
	invariant(ok, "recordstore '%s': no record at %d", s.name, id)
	return sl
}

// FindRecord never fails: it reports whether id is present.
func (s *Store) FindRecord(id RecordId) (Record, bool) {
	s.data.Lock()
	defer s.data.Unlock()

	sl, ok := s.data.tree.Get(&slot{id: id})
	if !ok {
		return Record{}, false
	}
	return Record{Id: sl.id, Data: sl.data}, true
}

// InsertRecords inserts every payload, assigning ids from the allocator,
// or for oplog stores extracting them from the payloads. Records too
// large for a capped store are rejected before anything mutates. A
// failure on any record unwinds the records inserted earlier in the same
// call, so the transaction is left as if the call never happened.
func (s *Store) InsertRecords(tx *transaction.Transaction, payloads [][]byte) ([]RecordId, error) {
	if s.opts.Capped {
		for _, p := range payloads {
			if int64(len(p)) > s.opts.CappedMaxSize {
				return nil, fmt.Errorf("%w: %d bytes, cappedMaxSize is %d",
					ErrCapacityExceeded, len(p), s.opts.CappedMaxSize)
			}
		}
	}

	mark := tx.Mark()
	ids := make([]RecordId, 0, len(payloads))
	for _, p := range payloads {
		id, err := s.insertOne(tx, p)
		if err != nil {
			tx.RollbackTo(mark)
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) insertOne(tx *transaction.Transaction, payload []byte) (RecordId, error) {
	s.data.Lock()
	defer s.data.Unlock()

	var id RecordId
	if s.opts.Oplog {
		var err error
		id, err = s.extractAndCheckKeyLocked(payload)
		if err != nil {
			return NullId, err
		}
	} else {
		id = s.allocateIdLocked()
	}

	data := make([]byte, len(payload))
	copy(data, payload)
	s.data.tree.ReplaceOrInsert(&slot{id: id, data: data})
	s.data.dataSize += int64(len(data))
	tx.Register(&insertChange{data: s.data, id: id})

	if err := s.cappedDeleteAsNeededLocked(tx); err != nil {
		return NullId, err
	}
	return id, nil
}

func (s *Store) allocateIdLocked() RecordId {
	id := s.data.nextId
	s.data.nextId++
	return id
}

// The key must be strictly greater than the greatest committed key,
// checked against store state at acceptance time regardless of the
// arrival order of concurrent callers.
func (s *Store) extractAndCheckKeyLocked(payload []byte) (RecordId, error) {
	id, err := s.opts.Extractor.ExtractKey(payload)
	if err != nil {
		return NullId, err
	}
	if id <= NullId {
		return NullId, fmt.Errorf("%w: non-positive key %d", ErrMalformedPayload, id)
	}
	if max, ok := s.data.tree.Max(); ok && id <= max.id {
		return NullId, fmt.Errorf("%w: key %d is not greater than last insert %d",
			ErrOutOfOrder, id, max.id)
	}
	return id, nil
}

// UpdateRecord replaces the payload at id. Records in capped stores
// never change size; callers enforce that above this layer, so a
// mismatch here aborts.
func (s *Store) UpdateRecord(tx *transaction.Transaction, id RecordId, payload []byte) error {
	mark := tx.Mark()
	if err := s.update(tx, id, payload); err != nil {
		tx.RollbackTo(mark)
		return err
	}
	return nil
}

func (s *Store) update(tx *transaction.Transaction, id RecordId, payload []byte) error {
	s.data.Lock()
	defer s.data.Unlock()

	old := s.recordForLocked(id)
	oldLen := int64(len(old.data))
	invariant(!s.opts.Capped || int64(len(payload)) == oldLen,
		"recordstore '%s': capped update changes size of %d (%d -> %d)", s.name, id, oldLen, len(payload))

	tx.Register(&removeChange{data: s.data, id: id, rec: old.data})

	data := make([]byte, len(payload))
	copy(data, payload)
	old.data = data
	s.data.dataSize += int64(len(payload)) - oldLen

	return s.cappedDeleteAsNeededLocked(tx)
}

// Damage is one byte-range copy from a damage source buffer into a
// record, leaving the record size unchanged.
type Damage struct {
	SourceOffset int64
	TargetOffset int64
	Length       int64
}

// UpdateWithDamages applies every damage over a private copy of the old
// payload and swaps the copy in at the end; a partially-patched record
// is never observable. Ranges outside the record or the source buffer
// are a caller contract violation.
func (s *Store) UpdateWithDamages(tx *transaction.Transaction, id RecordId, source []byte, damages []Damage) ([]byte, error) {
	s.data.Lock()
	defer s.data.Unlock()

	old := s.recordForLocked(id)
	size := int64(len(old.data))
	for _, d := range damages {
		invariant(d.SourceOffset >= 0 && d.TargetOffset >= 0 && d.Length >= 0 &&
			d.SourceOffset+d.Length <= int64(len(source)) &&
			d.TargetOffset+d.Length <= size,
			"recordstore '%s': damage out of range for record %d", s.name, id)
	}

	tx.Register(&removeChange{data: s.data, id: id, rec: old.data})

	data := make([]byte, size)
	copy(data, old.data)
	for _, d := range damages {
		copy(data[d.TargetOffset:d.TargetOffset+d.Length], source[d.SourceOffset:d.SourceOffset+d.Length])
	}
	old.data = data

	return data, nil
}

// DeleteRecord erases id. Deleting an absent id is a caller contract
// violation.
func (s *Store) DeleteRecord(tx *transaction.Transaction, id RecordId) {
	s.data.Lock()
	defer s.data.Unlock()
	s.deleteRecordLocked(tx, id)
}

func (s *Store) deleteRecordLocked(tx *transaction.Transaction, id RecordId) {
	sl := s.recordForLocked(id)
	tx.Register(&removeChange{data: s.data, id: id, rec: sl.data})
	s.data.dataSize -= int64(len(sl.data))
	_, ok := s.data.tree.Delete(sl)
	invariant(ok, "recordstore '%s': delete lost record %d", s.name, id)
}

// Truncate swaps the whole map and size counter for empty state in O(1).
// The discarded state stays alive inside the registered change until the
// transaction resolves, so rollback can swap it back.
func (s *Store) Truncate(tx *transaction.Transaction) {
	s.data.Lock()
	defer s.data.Unlock()

	ch := &truncateChange{
		data:     s.data,
		tree:     s.data.tree,
		dataSize: s.data.dataSize,
	}
	s.data.tree = btree.NewG(btreeDegree, lessSlot)
	s.data.dataSize = 0
	tx.Register(ch)
}

// TruncateAfter removes every record with id greater than end, or
// greater or equal when inclusive. On capped stores the delete callback
// is consulted per record; a veto unwinds the records already removed by
// this call.
func (s *Store) TruncateAfter(tx *transaction.Transaction, end RecordId, inclusive bool) error {
	mark := tx.Mark()
	if err := s.truncateAfter(tx, end, inclusive); err != nil {
		tx.RollbackTo(mark)
		return err
	}
	return nil
}

func (s *Store) truncateAfter(tx *transaction.Transaction, end RecordId, inclusive bool) error {
	s.data.Lock()
	defer s.data.Unlock()

	pivot := end
	if !inclusive {
		pivot = end + 1
	}
	doomed := []*slot{}
	s.data.tree.AscendGreaterOrEqual(&slot{id: pivot}, func(sl *slot) bool {
		doomed = append(doomed, sl)
		return true
	})

	for _, sl := range doomed {
		if s.opts.Callback != nil {
			if err := s.opts.Callback.AboutToDeleteCapped(sl.id, sl.data); err != nil {
				return fmt.Errorf("%w: record %d: %s", ErrEvictionVetoed, sl.id, err.Error())
			}
		}
		s.deleteRecordLocked(tx, sl.id)
	}
	return nil
}

// OplogStartPosition returns the greatest stored key lower or equal to
// start, or NullId when start precedes every record. It lets a tailing
// reader resume a scan without a linear search.
func (s *Store) OplogStartPosition(start RecordId) RecordId {
	if !s.opts.Oplog {
		return NullId
	}

	s.data.Lock()
	defer s.data.Unlock()

	found := NullId
	s.data.tree.DescendLessOrEqual(&slot{id: start}, func(sl *slot) bool {
		found = sl.id
		return false
	})
	return found
}

// GetCursor returns an ascending cursor when forward, descending
// otherwise. The cursor binds to store contents on its first advance,
// not at construction.
func (s *Store) GetCursor(forward bool) *Cursor {
	return &Cursor{
		data:    s.data,
		forward: forward,
		capped:  s.opts.Capped,
	}
}

func (s *Store) cappedNeedsDeleteLocked() bool {
	if !s.opts.Capped {
		return false
	}
	if s.data.dataSize > s.opts.CappedMaxSize {
		return true
	}
	if s.opts.CappedMaxDocs > 0 && int64(s.data.tree.Len()) > s.opts.CappedMaxDocs {
		return true
	}
	return false
}

// cappedDeleteAsNeededLocked evicts oldest-first until the store is back
// under its ceilings. Each eviction registers its own change, so rolling
// back the enclosing transaction restores every record evicted by it.
func (s *Store) cappedDeleteAsNeededLocked(tx *transaction.Transaction) error {
	for s.cappedNeedsDeleteLocked() {
		oldest, ok := s.data.tree.Min()
		invariant(ok, "recordstore '%s': over capped ceiling with no records", s.name)

		if s.opts.Callback != nil {
			if err := s.opts.Callback.AboutToDeleteCapped(oldest.id, oldest.data); err != nil {
				return fmt.Errorf("%w: record %d: %s", ErrEvictionVetoed, oldest.id, err.Error())
			}
		}
		s.deleteRecordLocked(tx, oldest.id)
	}
	return nil
}
