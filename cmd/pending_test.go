package cmd

import (
	"testing"

	"github.com/hance08/wren/internal/model"
	"github.com/hance08/wren/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPending(t *testing.T) {
	entries := []model.PendingTransaction{
		{LocalID: "3f2a9c10-0000-4000-8000-000000000001"},
		{LocalID: "3f2b0000-0000-4000-8000-000000000002"},
		{LocalID: "a1000000-0000-4000-8000-000000000003"},
	}

	got, err := matchPending(entries, "a1")
	require.NoError(t, err)
	assert.Equal(t, entries[2].LocalID, got.LocalID)

	got, err = matchPending(entries, "3f2a9c10")
	require.NoError(t, err)
	assert.Equal(t, entries[0].LocalID, got.LocalID)

	_, err = matchPending(entries, "3f2")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = matchPending(entries, "ff")
	assert.ErrorIs(t, err, queue.ErrEntryNotFound)

	_, err = matchPending(entries, " ")
	assert.Error(t, err)
}
