package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte("package x\n"), 0o644))
}

func TestWalk_SortedRelativePaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z/routes.go")
	writeFile(t, root, "a/handlers.go")
	writeFile(t, root, "main.go")

	files, warnings, err := New(nil, nil).Walk(root)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"a/handlers.go", "main.go", "z/routes.go"}, files)
}

func TestWalk_DefaultExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "api/routes.go")
	writeFile(t, root, "api/routes_test.go")
	writeFile(t, root, "vendor/dep/dep.go")
	writeFile(t, root, "testdata/fixture.go")
	writeFile(t, root, "node_modules/pkg/index.go")
	writeFile(t, root, ".git/hooks/hook.go")
	writeFile(t, root, "_tools/gen.go")
	writeFile(t, root, "readme.md")

	files, _, err := New(nil, nil).Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"api/routes.go"}, files)
}

func TestWalk_CustomPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "api/routes.go")
	writeFile(t, root, "api/legacy.go")
	writeFile(t, root, "gen/generated.go")

	files, _, err := New([]string{"*.go"}, []string{"gen", "legacy.go"}).Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"api/routes.go"}, files)
}

func TestWalk_RootNotFound(t *testing.T) {
	_, _, err := New(nil, nil).Walk(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrRootNotFound)
}

func TestWalk_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go")

	_, _, err := New(nil, nil).Walk(filepath.Join(root, "main.go"))
	assert.ErrorIs(t, err, ErrRootNotFound)
}

func TestWalk_EmptyProject(t *testing.T) {
	files, warnings, err := New(nil, nil).Walk(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Empty(t, warnings)
}
