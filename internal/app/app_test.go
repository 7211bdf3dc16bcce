package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hance08/wren/internal/config"
	"github.com/hance08/wren/internal/finance"
	"github.com/hance08/wren/internal/logging"
	"github.com/hance08/wren/internal/syncer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "/var/lib/wren.db", want: "/var/lib/wren.db"},
		{in: "~", want: home},
		{in: "~/wren/wren.db", want: filepath.Join(home, "wren/wren.db")},
		{in: "~other/x", want: "~other/x"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewAppOffline(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Database.Path = filepath.Join(t.TempDir(), "data", "wren.db")

	var got []syncer.Status
	notifier := syncer.NotifierFunc(func(s syncer.Status) { got = append(got, s) })

	a, cleanup, err := NewApp(cfg, os.DirFS("../.."), logging.Discard(), notifier)
	require.NoError(t, err)
	defer cleanup()

	_, err = a.Service.Sync.Sync(context.Background())
	assert.ErrorIs(t, err, syncer.ErrNoOfflineData)
	assert.ErrorIs(t, err, finance.ErrNetwork)

	_, err = os.Stat(cfg.Database.Path)
	assert.NoError(t, err)
}

func TestNewAppRejectsBadServerURL(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Database.Path = filepath.Join(t.TempDir(), "wren.db")
	cfg.Server.BaseURL = "finance.example.com"

	_, _, err := NewApp(cfg, os.DirFS("../.."), logging.Discard(), nil)
	assert.Error(t, err)
}
