package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigFlagFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "none", args: []string{"sync"}, want: ""},
		{name: "long", args: []string{"--config", "/tmp/w.yaml", "sync"}, want: "/tmp/w.yaml"},
		{name: "long with equals", args: []string{"status", "--config=/tmp/w.yaml"}, want: "/tmp/w.yaml"},
		{name: "short", args: []string{"-c", "w.yaml"}, want: "w.yaml"},
		{name: "short attached", args: []string{"-cw.yaml"}, want: "w.yaml"},
		{name: "missing value", args: []string{"--config"}, want: ""},
		{name: "after terminator", args: []string{"add", "--", "--config", "x"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, configFlagFromArgs(tt.args))
		})
	}
}
