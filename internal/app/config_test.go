package app

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/finchtui/finch/internal/logging"
	"github.com/finchtui/finch/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	// Unset environment variables set on host computer
	t.Setenv("FINCH_ADDRESS", "")
	t.Setenv("FINCH_DEFAULT_TAB", "")
	t.Setenv("FINCH_DEBUG", "")
	t.Setenv("FINCH_LOG_LEVEL", "")
	t.Setenv("FINCH_POLL_INTERVAL", "")
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		file string
		args []string
		envs []string
		want func(t *testing.T, got config)
	}{
		{
			"defaults",
			"",
			nil,
			nil,
			func(t *testing.T, got config) {
				want := config{
					Address:      "localhost:8080",
					DefaultTab:   "Following",
					PollInterval: 30 * time.Second,
					loggingOptions: logging.Options{
						Level: "info",
					},
				}
				assert.Equal(t, want, got)
			},
		},
		{
			"config file override default",
			"address: finch.example.com:443\n",
			nil,
			nil,
			func(t *testing.T, got config) {
				assert.Equal(t, got.Address, "finch.example.com:443")
			},
		},
		{
			"config file with poll-interval override default",
			"poll-interval: 5s\n",
			nil,
			nil,
			func(t *testing.T, got config) {
				assert.Equal(t, got.PollInterval, 5*time.Second)
			},
		},
		{
			"env var override default",
			"",
			nil,
			[]string{"FINCH_ADDRESS=finch.example.com:443"},
			func(t *testing.T, got config) {
				assert.Equal(t, got.Address, "finch.example.com:443")
			},
		},
		{
			"flag override default",
			"",
			[]string{"--address", "finch.example.com:443"},
			nil,
			func(t *testing.T, got config) {
				assert.Equal(t, got.Address, "finch.example.com:443")
			},
		},
		{
			"env var overrides config file",
			"address: one.example.com\n",
			nil,
			[]string{"FINCH_ADDRESS=two.example.com"},
			func(t *testing.T, got config) {
				assert.Equal(t, got.Address, "two.example.com")
			},
		},
		{
			"flag overrides env var",
			"",
			[]string{"--address", "one.example.com"},
			[]string{"FINCH_ADDRESS=two.example.com"},
			func(t *testing.T, got config) {
				assert.Equal(t, got.Address, "one.example.com")
			},
		},
		{
			"flag overrides both env var and config",
			"address: one.example.com\n",
			[]string{"--address", "three.example.com"},
			[]string{"FINCH_ADDRESS=two.example.com"},
			func(t *testing.T, got config) {
				assert.Equal(t, got.Address, "three.example.com")
			},
		},
		{
			"set default tab via environment variable",
			"",
			nil,
			[]string{"FINCH_DEFAULT_TAB=Popular"},
			func(t *testing.T, got config) {
				assert.Equal(t, got.DefaultTab, "Popular")
			},
		},
		{
			"set content to open at startup",
			"",
			[]string{"-o", "company/42"},
			nil,
			func(t *testing.T, got config) {
				assert.Equal(t, got.Open, "company/42")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// change into a temp dir in case the host computer has a finch.yaml file
			testutils.ChTempDir(t, t.TempDir())

			// set env vars
			for _, ev := range tt.envs {
				name, val, _ := strings.Cut(ev, "=")
				t.Setenv(name, val)
			}

			// set config file
			if tt.file != "" {
				path := filepath.Join(os.Getenv("HOME"), ".finch.yaml")
				err := os.WriteFile(path, []byte(tt.file), 0o644)
				require.NoError(t, err)
			}

			// and pass in flags
			got, err := parse(io.Discard, tt.args)
			require.NoError(t, err)

			tt.want(t, got)
		})
	}
}

func TestConfig_invalidDefaultTab(t *testing.T) {
	t.Setenv("FINCH_DEFAULT_TAB", "")
	t.Setenv("HOME", t.TempDir())

	_, err := parse(io.Discard, []string{"--default-tab", "Bookmarks"})
	require.Error(t, err)
}
