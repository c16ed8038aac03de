package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFTPURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPath string
		wantErr  bool
	}{
		{"default port", "ftp://ftp.example.ch/pub/stops.zip", "ftp.example.ch:21", "/pub/stops.zip", false},
		{"explicit port", "ftp://ftp.example.ch:2121/data.csv", "ftp.example.ch:2121", "/data.csv", false},
		{"wrong scheme", "https://example.ch/data.csv", "", "", true},
		{"no path", "ftp://ftp.example.ch", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, path, err := parseFTPURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}
