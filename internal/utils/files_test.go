package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/mbtiscope/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFile_CreatesParent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "out.md")
	require.NoError(t, utils.SafeWriteFile(p, []byte("hello")))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
	_, err = os.Stat(p + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(b))
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "infj", utils.SafeName("INFJ", "x"))
	assert.Equal(t, "my-type", utils.SafeName(" My Type! ", "x"))
	assert.Equal(t, "x", utils.SafeName("***", "x"))
}
