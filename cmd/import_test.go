package cmd

import (
	"context"
	"fmt"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/hance08/wren/internal/finance"
	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/reconcile"
	"github.com/hance08/wren/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestKeepReviewing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid split", fmt.Errorf("split: %w", reconcile.ErrInvalidSplitAmount), true},
		{"incomplete", &reconcile.IncompleteAssignmentError{Index: 0, TempID: "orig-1", Field: "category"}, true},
		{"server rejected", &finance.Error{Kind: finance.KindValidation, Status: 400}, true},
		{"unreachable", &finance.Error{Kind: finance.KindNetwork}, true},
		{"session expired", &finance.Error{Kind: finance.KindAuth, Status: 401}, false},
		{"storage", &store.StorageError{Op: "set", Key: "pending_transactions", Err: fmt.Errorf("disk full")}, false},
		{"canceled", context.Canceled, false},
		{"aborted", huh.ErrUserAborted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keepReviewing(tt.err))
		})
	}
}

func TestSplittable(t *testing.T) {
	entry := func(amount string) reconcile.Candidate {
		return reconcile.Candidate{Transaction: model.Transaction{Amount: decimal.RequireFromString(amount)}}
	}

	assert.False(t, splittable(entry("0.01")))
	assert.True(t, splittable(entry("0.02")))
	assert.True(t, splittable(entry("120")))
}
