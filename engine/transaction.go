package engine

import (
	"sync"

	"github.com/google/uuid"

	"github.com/edtela/tsqn/ast"
)

// TokenGenerator produces transaction ids.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 transaction ids, so
// ids from sequential transactions sort by creation time.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string. Panics if UUID
// generation fails, which does not happen in practice.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined ids for deterministic tests and
// golden-file comparison.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order.
// Generate panics when the tokens are exhausted, to fail fast on test
// misconfiguration.
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.tokens) {
		panic("FixedGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}

// Transaction accumulates change records across sequential updates to
// one data tree. Each Apply threads the running record into Update, so
// the accumulated record is equivalent to the records of the individual
// calls merged in order.
//
// Transactions are not nestable or concurrent; one transaction owns its
// tree at a time. Calling Apply after Commit or Revert starts a fresh
// accumulation under the same id.
type Transaction struct {
	id      string
	data    ast.Value
	changes *ast.ChangeRecord
}

// NewTransaction binds a transaction to a data tree with a UUIDv7 id.
func NewTransaction(data ast.Value) *Transaction {
	return NewTransactionWithID(data, UUIDv7Generator{})
}

// NewTransactionWithID binds a transaction using the given id source.
func NewTransactionWithID(data ast.Value, gen TokenGenerator) *Transaction {
	return &Transaction{id: gen.Generate(), data: data}
}

// ID returns the transaction id.
func (t *Transaction) ID() string {
	return t.id
}

// Apply runs an update against the bound tree, folding its changes into
// the running record. On a usage error the tree and the running record
// are left as the failed statement level found them.
func (t *Transaction) Apply(stmt ast.Statement) error {
	changes, err := Update(t.data, stmt, t.changes, nil)
	if err != nil {
		return err
	}
	if changes != nil {
		t.changes = changes
	}
	return nil
}

// Commit returns the accumulated record (nil when nothing changed) and
// clears the accumulation.
func (t *Transaction) Commit() *ast.ChangeRecord {
	changes := t.changes
	t.changes = nil
	if changes.Empty() {
		return nil
	}
	return changes
}

// Revert undoes the accumulated changes against the bound tree and
// clears the accumulation.
func (t *Transaction) Revert() {
	Undo(t.data, t.changes)
	t.changes = nil
}
