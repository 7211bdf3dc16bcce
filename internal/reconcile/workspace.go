// Package reconcile lets a user adjust imported transactions before they are
// committed: split one record into two, merge split records back, and assign
// categories and accounts. The amounts of a split lineage always add up to
// the amount that was imported.
package reconcile

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/hance08/wren/internal/model"
	"github.com/shopspring/decimal"
)

// DefaultPalette holds the highlight colors given to split lineages.
var DefaultPalette = []string{"#E9D8FD", "#BEE3F8", "#C6F6D5", "#FEEBC8", "#FED7D7", "#E2E8F0"}

const (
	seedPrefix  = "orig-"
	splitPrefix = "split-"
)

// Candidate is an imported transaction under review. ParentID is the TempID
// of the lineage root for split entries and empty otherwise.
type Candidate struct {
	TempID     string
	ParentID   string
	SplitColor string
	model.Transaction
}

type Workspace struct {
	entries []Candidate
	colors  map[string]string
	palette []string
	intn    func(int) int
	newID   func() string
}

type Option func(*Workspace)

func WithPalette(palette []string) Option {
	return func(w *Workspace) {
		if len(palette) > 0 {
			w.palette = slices.Clone(palette)
		}
	}
}

// WithRand sets the source used to pick lineage colors.
func WithRand(r *rand.Rand) Option {
	return func(w *Workspace) {
		if r != nil {
			w.intn = r.IntN
		}
	}
}

func New(records []model.Transaction, opts ...Option) *Workspace {
	w := &Workspace{
		colors:  make(map[string]string),
		palette: DefaultPalette,
		intn:    rand.IntN,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.entries = make([]Candidate, 0, len(records))
	for _, r := range records {
		w.entries = append(w.entries, Candidate{TempID: seedPrefix + w.newID(), Transaction: r})
	}
	return w
}

func (w *Workspace) Len() int { return len(w.entries) }

// Entries returns a copy of the current list.
func (w *Workspace) Entries() []Candidate {
	return slices.Clone(w.entries)
}

func (w *Workspace) Entry(index int) (Candidate, error) {
	if err := w.checkIndex(index); err != nil {
		return Candidate{}, err
	}
	return w.entries[index], nil
}

func (w *Workspace) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range w.entries {
		total = total.Add(e.Amount)
	}
	return total
}

// Lineage returns the entries that belong to lineageID: its split
// descendants and the entry carrying that TempID itself.
func (w *Workspace) Lineage(lineageID string) []Candidate {
	var out []Candidate
	for _, e := range w.entries {
		if inLineage(e, lineageID) {
			out = append(out, e)
		}
	}
	return out
}

// Split replaces the entry at index with two entries carrying firstAmount
// and the remainder. Both join the lineage of the original entry; splitting
// an entry that is already part of a lineage keeps the same root. Categories
// are cleared since the halves usually differ.
func (w *Workspace) Split(index int, firstAmount decimal.Decimal) error {
	if err := w.checkIndex(index); err != nil {
		return err
	}

	orig := w.entries[index]
	if !firstAmount.IsPositive() || firstAmount.GreaterThanOrEqual(orig.Amount) {
		return fmt.Errorf("%w: %s must be greater than zero and less than %s",
			ErrInvalidSplitAmount, firstAmount, orig.Amount)
	}

	root := orig.ParentID
	if root == "" {
		root = orig.TempID
	}
	color := w.colorFor(root)

	first := orig
	first.TempID = splitPrefix + w.newID()
	first.ParentID = root
	first.SplitColor = color
	first.CategoryID = 0
	first.Amount = firstAmount

	second := first
	second.TempID = splitPrefix + w.newID()
	second.Amount = orig.Amount.Sub(firstAmount)

	w.entries = slices.Replace(w.entries, index, index+1, first, second)
	return nil
}

// Merge collapses every entry of lineageID into one entry at the position
// of the first member. The merged entry takes lineageID as its TempID and
// is no longer part of a lineage.
func (w *Workspace) Merge(lineageID string) error {
	first := -1
	sum := decimal.Zero
	for i, e := range w.entries {
		if !inLineage(e, lineageID) {
			continue
		}
		if first < 0 {
			first = i
		}
		sum = sum.Add(e.Amount)
	}
	if first < 0 {
		return fmt.Errorf("%w: %s", ErrEmptyLineage, lineageID)
	}

	merged := w.entries[first]
	merged.TempID = lineageID
	merged.ParentID = ""
	merged.SplitColor = ""
	merged.CategoryID = 0
	merged.Amount = sum

	out := make([]Candidate, 0, len(w.entries))
	for i, e := range w.entries {
		switch {
		case i == first:
			out = append(out, merged)
		case inLineage(e, lineageID):
		default:
			out = append(out, e)
		}
	}
	w.entries = out
	return nil
}

func (w *Workspace) AssignCategory(index int, categoryID int64) error {
	if err := w.checkIndex(index); err != nil {
		return err
	}
	w.entries[index].CategoryID = categoryID
	return nil
}

func (w *Workspace) AssignAccount(index int, accountID int64) error {
	if err := w.checkIndex(index); err != nil {
		return err
	}
	w.entries[index].AccountID = accountID
	return nil
}

// FillAccount assigns accountID to every entry that has no account yet.
func (w *Workspace) FillAccount(accountID int64) {
	for i := range w.entries {
		if w.entries[i].AccountID == 0 {
			w.entries[i].AccountID = accountID
		}
	}
}

// Finalize returns the transactions ready for submission. Every entry needs
// a category and an account.
func (w *Workspace) Finalize() ([]model.Transaction, error) {
	txs := make([]model.Transaction, 0, len(w.entries))
	for i, e := range w.entries {
		switch {
		case e.CategoryID == 0:
			return nil, &IncompleteAssignmentError{Index: i, TempID: e.TempID, Field: "category"}
		case e.AccountID == 0:
			return nil, &IncompleteAssignmentError{Index: i, TempID: e.TempID, Field: "account"}
		}
		txs = append(txs, e.Transaction)
	}
	return txs, nil
}

func (w *Workspace) checkIndex(index int) error {
	if index < 0 || index >= len(w.entries) {
		return fmt.Errorf("%w: %d (have %d entries)", ErrIndexOutOfRange, index, len(w.entries))
	}
	return nil
}

// colorFor returns the color of a lineage, picking one on first use.
func (w *Workspace) colorFor(root string) string {
	if c, ok := w.colors[root]; ok {
		return c
	}
	c := w.palette[w.intn(len(w.palette))]
	w.colors[root] = c
	return c
}

func inLineage(e Candidate, lineageID string) bool {
	if lineageID == "" {
		return false
	}
	return e.ParentID == lineageID || e.TempID == lineageID
}
