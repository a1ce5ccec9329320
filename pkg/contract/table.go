// Package contract implements ContractTable, the process-wide,
// write-once-at-startup registry of tradable instruments described in
// a dense-index plus ticker-map sealed registry. It is grounded on an Instrument registry
// idiom (tbsrc-golang/pkg/instrument): a dense array keyed by a small
// integer index for hot-path lookups, with a string map on the side
// for the rarer ticker-based lookup.
package contract

import (
	"fmt"
	"sync"

	"github.com/yourusername/tradecore/pkg/types"
)

// key identifies a contract by the unique (ticker, exchange) pair.
type key struct {
	ticker   string
	exchange string
}

// Table is a read-mostly registry of contracts. It starts in an
// "open" state accepting Insert calls; Seal() transitions it to
// read-only. All lookups are safe for concurrent use; Insert is only
// safe before Seal (by convention — the engine calls Insert only
// during single-threaded startup).
type Table struct {
	mu       sync.RWMutex
	byIndex  []*types.Contract // dense; index i holds the contract with Index == i
	byTicker map[key]*types.Contract
	byString map[string]*types.Contract // ticker-only lookup, last exchange wins on collision
	sealed   bool
}

// New returns an empty, unsealed Table.
func New() *Table {
	return &Table{
		byTicker: make(map[key]*types.Contract),
		byString: make(map[string]*types.Contract),
	}
}

// Insert registers a contract. The caller supplies Index; it is the
// caller's responsibility to keep the index space dense (0..n-1) since
// GetByIndex relies on slice growth to reject out-of-range lookups
// cheaply. Insert fails once the table is sealed, if Size <= 0, or if
// (Ticker, Exchange) or Index is already registered.
func (t *Table) Insert(c types.Contract) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sealed {
		return fmt.Errorf("contract: table is sealed, cannot insert %s.%s", c.Ticker, c.Exchange)
	}
	if c.Size <= 0 {
		return fmt.Errorf("contract: %s.%s has non-positive size %d", c.Ticker, c.Exchange, c.Size)
	}
	if c.Index < 0 {
		return fmt.Errorf("contract: %s.%s has negative index %d", c.Ticker, c.Exchange, c.Index)
	}

	k := key{ticker: c.Ticker, exchange: c.Exchange}
	if _, exists := t.byTicker[k]; exists {
		return fmt.Errorf("contract: duplicate (ticker, exchange) %s.%s", c.Ticker, c.Exchange)
	}
	if int(c.Index) < len(t.byIndex) && t.byIndex[c.Index] != nil {
		return fmt.Errorf("contract: duplicate index %d", c.Index)
	}

	for int(c.Index) >= len(t.byIndex) {
		t.byIndex = append(t.byIndex, nil)
	}

	stored := c
	t.byIndex[c.Index] = &stored
	t.byTicker[k] = &stored
	t.byString[c.Ticker] = &stored
	return nil
}

// Seal transitions the table to read-only. Further Insert calls fail.
func (t *Table) Seal() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sealed = true
}

// Sealed reports whether the table has been sealed.
func (t *Table) Sealed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sealed
}

// GetByIndex is an O(1) dense-array lookup. Returns nil if i is out of
// range.
func (t *Table) GetByIndex(i int32) *types.Contract {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || int(i) >= len(t.byIndex) {
		return nil
	}
	return t.byIndex[i]
}

// GetByTicker is an O(1) average string-map lookup scoped to an
// exchange.
func (t *Table) GetByTicker(ticker, exchange string) *types.Contract {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byTicker[key{ticker: ticker, exchange: exchange}]
}

// GetByTickerAny looks up a contract by ticker alone, ignoring
// exchange. Used by query filters that don't know the exchange ahead
// of time; ambiguous when the same ticker trades on two exchanges.
func (t *Table) GetByTickerAny(ticker string) *types.Contract {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byString[ticker]
}

// UpdateMarginRate refreshes the long/short margin rate of an
// already-registered contract in place. This is the one field allowed
// to change post-registration, via a margin-rate query response.
func (t *Table) UpdateMarginRate(index int32, long, short float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || int(index) >= len(t.byIndex) || t.byIndex[index] == nil {
		return fmt.Errorf("contract: no contract registered at index %d", index)
	}
	t.byIndex[index].LongMarginRate = long
	t.byIndex[index].ShortMarginRate = short
	return nil
}

// Len returns the number of registered contracts.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byTicker)
}
