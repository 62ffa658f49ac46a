package syntax

import (
	"errors"
	"slices"
)

var (
	// ErrTxnActive is returned by Begin while another transaction is open.
	ErrTxnActive = errors.New("a write transaction is already active")
	// ErrTxnClosed is returned when a finished transaction is used again.
	ErrTxnClosed = errors.New("transaction already finished")
)

// Txn is a single write transaction over a Tree. Mutations made while it is
// open become permanent on Commit and are undone by Rollback.
type Txn struct {
	tree *Tree
	done bool

	slots     []slot
	free      []uint32
	root      NodeID
	hasErrors bool
}

// Begin opens a write transaction.
func (t *Tree) Begin() (*Txn, error) {
	if t.txn != nil {
		return nil, ErrTxnActive
	}

	snapshot := make([]slot, len(t.slots))
	for i, s := range t.slots {
		snapshot[i] = s
		snapshot[i].node.children = slices.Clone(s.node.children)
	}

	t.txn = &Txn{
		tree:      t,
		slots:     snapshot,
		free:      slices.Clone(t.free),
		root:      t.root,
		hasErrors: t.hasErrors,
	}

	return t.txn, nil
}

// InTxn reports whether a write transaction is open.
func (t *Tree) InTxn() bool {
	return t.txn != nil
}

// Commit keeps every mutation made since Begin.
func (x *Txn) Commit() error {
	if x.done {
		return ErrTxnClosed
	}

	x.done = true
	x.tree.txn = nil
	x.slots = nil
	x.free = nil

	return nil
}

// Rollback restores the tree to its state at Begin. Handles allocated inside
// the transaction become stale; the generation counter is not rewound so they
// can never be confused with later allocations.
func (x *Txn) Rollback() error {
	if x.done {
		return ErrTxnClosed
	}

	t := x.tree
	t.slots = x.slots
	t.free = x.free
	t.root = x.root
	t.hasErrors = x.hasErrors
	t.txn = nil
	t.touch()

	x.done = true
	x.slots = nil
	x.free = nil

	return nil
}

// Close rolls back unless the transaction was already committed.
func (x *Txn) Close() {
	if !x.done {
		_ = x.Rollback()
	}
}
