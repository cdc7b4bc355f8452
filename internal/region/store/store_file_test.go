package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYAML(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		entries, err := parseYAML([]byte(`
regions:
  "110000": 北京市
  "110105": " 朝阳区 "
`))
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"110000": "北京市", "110105": "朝阳区"}, entries)
	})

	t.Run("empty file", func(t *testing.T) {
		entries, err := parseYAML(nil)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	tests := map[string]string{
		"malformed yaml": "regions: [",
		"bad code":       "regions:\n  \"11000\": x\n",
		"empty name":     "regions:\n  \"110000\": \"\"\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseYAML([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regions:\n  \"460400\": 儋州市\n"), 0o600))

	entries, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "儋州市", entries["460400"])

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
