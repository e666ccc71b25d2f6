package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		args         []string
		expectedExit int
	}{
		{
			name:         "version command",
			args:         []string{"pakt", "version"},
			expectedExit: 0,
		},
		{
			name:         "unknown command",
			args:         []string{"pakt", "frobnicate"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Setenv("XDG_CACHE_HOME", tmpDir+"/cache")
			t.Setenv("XDG_CONFIG_HOME", tmpDir+"/config")

			originalWd, _ := os.Getwd()
			if err := os.Chdir(tmpDir); err != nil {
				t.Fatalf("failed to chdir: %v", err)
			}
			defer func() {
				_ = os.Chdir(originalWd)
			}()

			os.Args = tt.args
			assert.Equal(t, tt.expectedExit, run())
		})
	}
}
