package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lucifer/internal/adapters/fs"
)

func TestResolver_Resolve(t *testing.T) {
	root := t.TempDir()
	r, err := fs.NewResolver(root)
	require.NoError(t, err)

	assert.Equal(t, root, r.Root())
	assert.Equal(t, filepath.Join(root, "lib", "users.go"), r.Resolve("lib/users.go"))
	assert.Equal(t, filepath.Join(root, "lib", "users.go"), r.Resolve("./lib/../lib/users.go"))
}

func TestResolver_Resolve_DoesNotCheckExistence(t *testing.T) {
	root := t.TempDir()
	r, err := fs.NewResolver(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "missing.go"), r.Resolve("missing.go"))
}

func TestResolver_Resolve_Traversal(t *testing.T) {
	root := t.TempDir()
	r, err := fs.NewResolver(root)
	require.NoError(t, err)

	abs := r.Resolve("../outside.go")
	assert.Equal(t, filepath.Join(filepath.Dir(root), "outside.go"), abs)
	assert.False(t, r.Contains(abs))
	assert.Equal(t, abs, r.Rel(abs))
}

func TestResolver_Contains(t *testing.T) {
	root := t.TempDir()
	r, err := fs.NewResolver(root)
	require.NoError(t, err)

	assert.True(t, r.Contains(root))
	assert.True(t, r.Contains(filepath.Join(root, "a", "b.go")))
	assert.True(t, r.Contains(filepath.Join(root, "..foo")))
	assert.False(t, r.Contains(filepath.Dir(root)))
	assert.Equal(t, filepath.Join("a", "b.go"), r.Rel(filepath.Join(root, "a", "b.go")))
}

func TestResolver_IsSelf(t *testing.T) {
	root := t.TempDir()
	r, err := fs.NewResolver(root, "", "cmd/lucifer", "/usr/local/bin/lucifer")
	require.NoError(t, err)

	assert.True(t, r.IsSelf(r.Resolve("cmd/lucifer/main.go")))
	assert.True(t, r.IsSelf("/usr/local/bin/lucifer"))
	assert.False(t, r.IsSelf(r.Resolve("lib/users.go")))
	assert.False(t, r.IsSelf(r.Resolve("cmd/other/main.go")))
}

func TestResolver_IsSelf_SiblingSharingPrefix(t *testing.T) {
	root := t.TempDir()
	binary := filepath.Join(root, "lucifer")
	r, err := fs.NewResolver(root, binary)
	require.NoError(t, err)

	assert.True(t, r.IsSelf(binary))
	for _, rel := range []string{"lucifer.yaml", "lucifer_helpers.go", "luciferx/a.go"} {
		assert.False(t, r.IsSelf(r.Resolve(rel)), rel)
	}
}

func TestResolver_RelativeRoot(t *testing.T) {
	t.Chdir(t.TempDir())

	r, err := fs.NewResolver(".")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(r.Root()))
}
