package transaction

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Change is one undoable unit of work. A Change is registered with the
// transaction at the moment the mutation happens and is resolved exactly
// once when the transaction ends: Commit on success, Rollback otherwise.
// Rollback must not fail; a Change that cannot restore the state it
// captured has found corruption and must panic.
type Change interface {
	Commit()
	Rollback()
}

type Transaction struct {
	id       string
	mu       sync.Mutex
	changes  []Change
	resolved bool
}

func New() *Transaction {
	return &Transaction{
		id: uuid.New().String(),
	}
}

func (t *Transaction) ID() string {
	return t.id
}

// Register appends a change. Changes commit in registration order and
// roll back in reverse registration order.
func (t *Transaction) Register(c Change) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.resolved {
		panic(fmt.Sprintf("transaction %s: register after resolution", t.id))
	}
	t.changes = append(t.changes, c)
}

// Mark returns a position in the change list that RollbackTo can later
// unwind to, letting an operation discard only its own changes when it
// fails halfway through.
func (t *Transaction) Mark() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.changes)
}

// RollbackTo rolls back and discards every change registered after mark,
// in reverse order. The transaction stays active.
func (t *Transaction) RollbackTo(mark int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.resolved {
		panic(fmt.Sprintf("transaction %s: rollbackTo after resolution", t.id))
	}
	if mark < 0 || mark > len(t.changes) {
		panic(fmt.Sprintf("transaction %s: bad mark %d (have %d changes)", t.id, mark, len(t.changes)))
	}
	for i := len(t.changes) - 1; i >= mark; i-- {
		t.changes[i].Rollback()
	}
	t.changes = t.changes[:mark]
}

func (t *Transaction) Commit() {
	for _, c := range t.resolve() {
		c.Commit()
	}
}

func (t *Transaction) Rollback() {
	changes := t.resolve()
	for i := len(changes) - 1; i >= 0; i-- {
		changes[i].Rollback()
	}
}

func (t *Transaction) resolve() []Change {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.resolved {
		panic(fmt.Sprintf("transaction %s: resolved twice", t.id))
	}
	t.resolved = true

	changes := t.changes
	t.changes = nil
	return changes
}
