package recordstore

import (
	"testing"

	. "github.com/fulldump/biff"

	"github.com/TrellixVulnTeam/bsonview-6DWM/transaction"
)

func collect(c *Cursor) []RecordId {
	ids := []RecordId{}
	for {
		record, ok := c.Next()
		if !ok {
			return ids
		}
		ids = append(ids, record.Id)
	}
}

func TestCursorForward(t *testing.T) {
	s := newStore(t, Options{})
	mustInsert(t, s, "a", "b", "c", "d", "e")

	AssertEqual(collect(s.GetCursor(true)), []RecordId{1, 2, 3, 4, 5})
}

func TestCursorReverse(t *testing.T) {
	s := newStore(t, Options{})
	mustInsert(t, s, "a", "b", "c", "d", "e")

	AssertEqual(collect(s.GetCursor(false)), []RecordId{5, 4, 3, 2, 1})
}

func TestCursorExhaustedStaysAtEnd(t *testing.T) {
	s := newStore(t, Options{})
	mustInsert(t, s, "a")

	c := s.GetCursor(true)
	collect(c)

	// More records do not wake an exhausted cursor.
	mustInsert(t, s, "b")
	_, ok := c.Next()
	AssertEqual(ok, false)
}

func TestCursorBindsOnFirstAdvance(t *testing.T) {
	s := newStore(t, Options{})
	mustInsert(t, s, "a")

	c := s.GetCursor(true)
	mustInsert(t, s, "b")

	// Inserted after construction but before first use: visible.
	AssertEqual(collect(c), []RecordId{1, 2})
}

func TestCursorSeekExact(t *testing.T) {
	s := newStore(t, Options{})
	mustInsert(t, s, "a", "b", "c")

	c := s.GetCursor(true)
	record, ok := c.SeekExact(2)
	AssertEqual(ok, true)
	AssertEqual(string(record.Data), "b")

	// Iteration continues from the seek point.
	record, ok = c.Next()
	AssertEqual(ok, true)
	AssertEqual(record.Id, RecordId(3))
}

func TestCursorSeekExactAbsent(t *testing.T) {
	s := newStore(t, Options{})
	mustInsert(t, s, "a", "b", "c")

	c := s.GetCursor(false)
	_, ok := c.SeekExact(99)
	AssertEqual(ok, false)

	_, ok = c.Next()
	AssertEqual(ok, false)
}

func TestCursorSaveRestoreUnrelatedInsert(t *testing.T) {
	s := newStore(t, Options{})
	mustInsert(t, s, "a", "b", "c")

	c := s.GetCursor(true)
	c.Next() // 1
	c.Next() // 2
	c.Save()

	mustInsert(t, s, "unrelated")

	AssertEqual(c.Restore(), true)
	record, ok := c.Next()
	AssertEqual(ok, true)
	AssertEqual(record.Id, RecordId(2))

	record, ok = c.Next()
	AssertEqual(record.Id, RecordId(3))
}

func TestCursorRestoreAfterSavedKeyDeleted(t *testing.T) {
	s := newStore(t, Options{})
	mustInsert(t, s, "a", "b", "c")

	c := s.GetCursor(true)
	c.Next() // 1
	c.Next() // 2
	c.Save()

	tx := transaction.New()
	s.DeleteRecord(tx, 2)
	tx.Commit()

	// Non-capped stores tolerate the gap and resume at the neighbor.
	AssertEqual(c.Restore(), true)
	record, ok := c.Next()
	AssertEqual(ok, true)
	AssertEqual(record.Id, RecordId(3))
}

func TestReverseCursorRestoreAfterSavedKeyDeleted(t *testing.T) {
	s := newStore(t, Options{})
	mustInsert(t, s, "a", "b", "c")

	c := s.GetCursor(false)
	c.Next() // 3
	c.Next() // 2
	c.Save()

	tx := transaction.New()
	s.DeleteRecord(tx, 2)
	tx.Commit()

	// The reverse direction uses the complementary bound: first key <= 2.
	AssertEqual(c.Restore(), true)
	record, ok := c.Next()
	AssertEqual(ok, true)
	AssertEqual(record.Id, RecordId(1))
}

func TestCursorSaveUnpositioned(t *testing.T) {
	s := newStore(t, Options{})
	mustInsert(t, s, "a", "b")

	c := s.GetCursor(true)
	c.Next()
	c.SaveUnpositioned()

	AssertEqual(c.Restore(), true)
	_, ok := c.Next()
	AssertEqual(ok, false)
}

func TestCursorSaveAtEnd(t *testing.T) {
	s := newStore(t, Options{})
	mustInsert(t, s, "a")

	c := s.GetCursor(true)
	collect(c)
	c.Save()

	AssertEqual(c.Restore(), true)
	_, ok := c.Next()
	AssertEqual(ok, false)
}

func TestCappedCursorRestoreAfterEvictionFails(t *testing.T) {
	s := newStore(t, Options{Capped: true, CappedMaxSize: 8})
	mustInsert(t, s, "AAAAA")

	c := s.GetCursor(true)
	record, ok := c.Next()
	AssertEqual(ok, true)
	AssertEqual(record.Id, RecordId(1))
	c.Save()

	// Another writer rolls the capped store over; id 1 is evicted.
	mustInsert(t, s, "BBBBB")

	// A lagging capped cursor must fail instead of silently resuming
	// past the gap.
	AssertEqual(c.Restore(), false)
}

func TestCappedCursorRestoreSurvivingKey(t *testing.T) {
	s := newStore(t, Options{Capped: true, CappedMaxSize: 100})
	mustInsert(t, s, "AAAAA", "BBBBB")

	c := s.GetCursor(true)
	c.Next()
	c.Next()
	c.Save()

	AssertEqual(c.Restore(), true)
	record, ok := c.Next()
	AssertEqual(ok, true)
	AssertEqual(record.Id, RecordId(2))
}

func TestCursorRollbackVisibility(t *testing.T) {
	s := newStore(t, Options{})
	mustInsert(t, s, "a")

	tx := transaction.New()
	_, err := s.InsertRecords(tx, [][]byte{[]byte("b"), []byte("c")})
	AssertNil(err)
	tx.Rollback()

	AssertEqual(collect(s.GetCursor(true)), []RecordId{1})
}
