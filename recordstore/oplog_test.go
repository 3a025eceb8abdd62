package recordstore

import (
	"errors"
	"testing"

	. "github.com/fulldump/biff"

	"github.com/TrellixVulnTeam/bsonview-6DWM/transaction"
)

func newOplogStore(t *testing.T) *Store {
	t.Helper()
	s, err := New("oplog", Options{
		Oplog:     true,
		Extractor: TimestampExtractor{Field: "ts"},
	})
	if err != nil {
		t.Fatalf("new oplog store: %v", err)
	}
	return s
}

func oplogInsert(s *Store, payload string) error {
	tx := transaction.New()
	_, err := s.InsertRecords(tx, [][]byte{[]byte(payload)})
	if err != nil {
		tx.Rollback()
		return err
	}
	tx.Commit()
	return nil
}

func TestOplogMonotonicity(t *testing.T) {
	s := newOplogStore(t)

	AssertNil(oplogInsert(s, `{"ts": 5, "op": "i"}`))
	AssertNil(oplogInsert(s, `{"ts": 10, "op": "i"}`))

	err := oplogInsert(s, `{"ts": 7, "op": "i"}`)
	AssertEqual(errors.Is(err, ErrOutOfOrder), true)

	AssertEqual(s.NumRecords(), int64(2))
	record, exists := s.FindRecord(10)
	AssertEqual(exists, true)
	AssertEqual(record.Id, RecordId(10))
}

func TestOplogEqualKeyRejected(t *testing.T) {
	s := newOplogStore(t)

	AssertNil(oplogInsert(s, `{"ts": 5}`))
	err := oplogInsert(s, `{"ts": 5}`)
	AssertEqual(errors.Is(err, ErrOutOfOrder), true)
}

func TestOplogBatchFailureUnwinds(t *testing.T) {
	s := newOplogStore(t)
	AssertNil(oplogInsert(s, `{"ts": 5}`))

	tx := transaction.New()
	_, err := s.InsertRecords(tx, [][]byte{
		[]byte(`{"ts": 20}`),
		[]byte(`{"ts": 15}`),
	})
	AssertEqual(errors.Is(err, ErrOutOfOrder), true)
	tx.Commit()

	// The accepted first record of the failed batch is gone too.
	AssertEqual(s.NumRecords(), int64(1))
	_, exists := s.FindRecord(20)
	AssertEqual(exists, false)
}

func TestOplogMalformedPayload(t *testing.T) {
	s := newOplogStore(t)

	err := oplogInsert(s, `{"op": "i"}`)
	AssertEqual(errors.Is(err, ErrMalformedPayload), true)

	err = oplogInsert(s, `{"ts": "not a number"}`)
	AssertEqual(errors.Is(err, ErrMalformedPayload), true)

	err = oplogInsert(s, `{"ts": 0}`)
	AssertEqual(errors.Is(err, ErrMalformedPayload), true)

	AssertEqual(s.NumRecords(), int64(0))
}

func TestOplogStartPosition(t *testing.T) {
	s := newOplogStore(t)
	AssertNil(oplogInsert(s, `{"ts": 5}`))
	AssertNil(oplogInsert(s, `{"ts": 10}`))
	AssertNil(oplogInsert(s, `{"ts": 30}`))

	AssertEqual(s.OplogStartPosition(10), RecordId(10)) // exact hit
	AssertEqual(s.OplogStartPosition(12), RecordId(10)) // between entries
	AssertEqual(s.OplogStartPosition(99), RecordId(30)) // past the end
	AssertEqual(s.OplogStartPosition(3), NullId)        // before everything
}

func TestOplogStartPositionNonOplog(t *testing.T) {
	s := newStore(t, Options{})
	mustInsert(t, s, "a")

	AssertEqual(s.OplogStartPosition(1), NullId)
}

func TestTimestampExtractor(t *testing.T) {
	e := TimestampExtractor{Field: "ts"}

	key, err := e.ExtractKey([]byte(`{"ts": 42, "h": 7}`))
	AssertNil(err)
	AssertEqual(key, RecordId(42))

	_, err = e.ExtractKey([]byte(`{}`))
	AssertEqual(errors.Is(err, ErrMalformedPayload), true)

	_, err = e.ExtractKey([]byte(`{"ts": -1}`))
	AssertEqual(errors.Is(err, ErrMalformedPayload), true)
}

func TestOplogTailScan(t *testing.T) {
	s := newOplogStore(t)
	AssertNil(oplogInsert(s, `{"ts": 5}`))
	AssertNil(oplogInsert(s, `{"ts": 10}`))
	AssertNil(oplogInsert(s, `{"ts": 30}`))

	// A tailing reader resumes from the resolved start position.
	start := s.OplogStartPosition(12)
	c := s.GetCursor(true)
	record, ok := c.SeekExact(start)
	AssertEqual(ok, true)
	AssertEqual(record.Id, RecordId(10))

	record, ok = c.Next()
	AssertEqual(ok, true)
	AssertEqual(record.Id, RecordId(30))
}
