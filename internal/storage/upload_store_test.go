package storage

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *UploadStore {
	t.Helper()
	store, err := NewUploadStore(afero.NewMemMapFs(), "/uploads")
	require.NoError(t, err)
	return store
}

func TestUploadScopeSave(t *testing.T) {
	store := newTestStore(t)

	scope, err := store.NewScope()
	require.NoError(t, err)

	uf, err := scope.Save("contractA.docx", strings.NewReader("PK\x03\x04fake"))
	require.NoError(t, err)
	assert.Equal(t, "contractA.docx", uf.Name)
	assert.Contains(t, uf.Path, "01_contractA.docx")

	data, err := afero.ReadFile(store.Fs(), uf.Path)
	require.NoError(t, err)
	assert.Equal(t, "PK\x03\x04fake", string(data))
}

func TestUploadScopeDuplicateNames(t *testing.T) {
	store := newTestStore(t)

	scope, err := store.NewScope()
	require.NoError(t, err)

	first, err := scope.Save("contract.docx", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := scope.Save("contract.docx", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)

	data, err := afero.ReadFile(store.Fs(), first.Path)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestUploadScopeRejectsEmptyName(t *testing.T) {
	store := newTestStore(t)

	scope, err := store.NewScope()
	require.NoError(t, err)

	_, err = scope.Save("  ", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestUploadScopeStripsDirectories(t *testing.T) {
	store := newTestStore(t)

	scope, err := store.NewScope()
	require.NoError(t, err)

	uf, err := scope.Save("../../etc/passwd.docx", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "passwd.docx", uf.Name)
	assert.True(t, strings.HasPrefix(uf.Path, scope.Dir()), "copy must stay inside the scope")
}

func TestScopesDoNotCollide(t *testing.T) {
	store := newTestStore(t)

	a, err := store.NewScope()
	require.NoError(t, err)
	b, err := store.NewScope()
	require.NoError(t, err)

	assert.NotEqual(t, a.Dir(), b.Dir())

	fa, err := a.Save("same.docx", strings.NewReader("a"))
	require.NoError(t, err)
	fb, err := b.Save("same.docx", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, fa.Path, fb.Path)
}

func TestUploadScopeRelease(t *testing.T) {
	store := newTestStore(t)

	scope, err := store.NewScope()
	require.NoError(t, err)

	uf, err := scope.Save("gone.docx", strings.NewReader("x"))
	require.NoError(t, err)

	scope.Release()

	exists, err := afero.Exists(store.Fs(), uf.Path)
	require.NoError(t, err)
	assert.False(t, exists, "release must remove the scope contents")
}
