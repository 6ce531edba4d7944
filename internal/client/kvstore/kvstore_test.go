package kvstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	s := NewMemory()

	_, ok := s.Get("token")
	assert.False(t, ok)

	require.NoError(t, s.Set("token", "abc"))
	v, ok := s.Get("token")
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, s.Set("token", "xyz"))
	v, _ = s.Get("token")
	assert.Equal(t, "xyz", v)

	require.NoError(t, s.Delete("token"))
	_, ok = s.Get("token")
	assert.False(t, ok)

	// Deleting twice is not an error.
	require.NoError(t, s.Delete("token"))
}

func TestFile_PersistsAcrossReopen(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "storage.json")

	s, err := OpenFile(ruta)
	require.NoError(t, err)
	require.NoError(t, s.Set("token", "abc"))
	require.NoError(t, s.Set("usuario", `{"id":1}`))
	require.NoError(t, s.Delete("usuario"))

	reabierto, err := OpenFile(ruta)
	require.NoError(t, err)

	v, ok := reabierto.Get("token")
	require.True(t, ok)
	assert.Equal(t, "abc", v)
	_, ok = reabierto.Get("usuario")
	assert.False(t, ok)
}

func TestFile_MissingFileStartsEmpty(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "no-existe.json"))
	require.NoError(t, err)
	_, ok := s.Get("token")
	assert.False(t, ok)
}

func TestFile_CorruptFileFails(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "roto.json")
	require.NoError(t, os.WriteFile(ruta, []byte("{no es json"), 0o600))

	_, err := OpenFile(ruta)
	assert.Error(t, err)
}

func TestFile_CreatesParentDir(t *testing.T) {
	ruta := filepath.Join(t.TempDir(), "anidado", "mas", "storage.json")

	s, err := OpenFile(ruta)
	require.NoError(t, err)
	require.NoError(t, s.Set("token", "abc"))

	_, err = os.Stat(ruta)
	assert.NoError(t, err)
}
