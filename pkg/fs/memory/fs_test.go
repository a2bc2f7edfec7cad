package memory

import (
	"errors"
	"io/fs"
	"sync"
	"syscall"
	"testing"

	apathyfs "github.com/butter-bot-machines/apathy/pkg/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ apathyfs.FS = (*FS)(nil)

func TestFS_BasicOperations(t *testing.T) {
	fsys := New()

	t.Run("CreateEmpty", func(t *testing.T) {
		require.NoError(t, fsys.CreateEmpty("test.txt", 0644))
		assert.True(t, fsys.Exists("test.txt"))
		assert.True(t, fsys.IsFile("/test.txt"))
		assert.False(t, fsys.IsDir("test.txt"))

		mode, ok := fsys.Mode("test.txt")
		require.True(t, ok)
		assert.Equal(t, apathyfs.Mode(0644), mode)
	})

	t.Run("CreateEmpty existing", func(t *testing.T) {
		require.NoError(t, fsys.CreateEmpty("test.txt", 0600))
		mode, _ := fsys.Mode("test.txt")
		assert.Equal(t, apathyfs.Mode(0644), mode)
	})

	t.Run("trailing separator on a file", func(t *testing.T) {
		assert.False(t, fsys.Exists("test.txt/"))
		assert.False(t, fsys.IsFile("test.txt/"))
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, fsys.Remove("test.txt"))
		assert.False(t, fsys.Exists("test.txt"))

		err := fsys.Remove("test.txt")
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})
}

func TestFS_DirectoryOperations(t *testing.T) {
	fsys := New()

	t.Run("Mkdir", func(t *testing.T) {
		require.NoError(t, fsys.Mkdir("a", 0755))
		assert.True(t, fsys.IsDir("a"))
		assert.True(t, fsys.IsDir("/a/"))
		assert.True(t, fsys.Exists("a/"))
	})

	t.Run("Mkdir existing", func(t *testing.T) {
		err := fsys.Mkdir("a", 0755)
		assert.True(t, errors.Is(err, fs.ErrExist))
	})

	t.Run("Mkdir missing parent", func(t *testing.T) {
		err := fsys.Mkdir("x/y", 0755)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("Mkdir below a file", func(t *testing.T) {
		require.NoError(t, fsys.CreateEmpty("a/file", 0644))
		err := fsys.Mkdir("a/file/sub", 0755)
		assert.True(t, errors.Is(err, syscall.ENOTDIR))
	})

	t.Run("CreateEmpty below a file", func(t *testing.T) {
		err := fsys.CreateEmpty("a/file/sub", 0644)
		assert.True(t, errors.Is(err, syscall.ENOTDIR))
		assert.False(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("ReadDirNames", func(t *testing.T) {
		require.NoError(t, fsys.Mkdir("a/b", 0755))
		require.NoError(t, fsys.Mkdir("a/b/c", 0755))

		names, err := fsys.ReadDirNames("a")
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "file"}, names)

		names, err = fsys.ReadDirNames("/")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, names)
	})

	t.Run("ReadDirNames on a file", func(t *testing.T) {
		_, err := fsys.ReadDirNames("a/file")
		assert.True(t, errors.Is(err, syscall.ENOTDIR))
	})

	t.Run("Remove non-empty", func(t *testing.T) {
		err := fsys.Remove("a/b")
		assert.True(t, errors.Is(err, syscall.ENOTEMPTY))
		assert.True(t, fsys.IsDir("a/b"))
	})

	t.Run("Remove root", func(t *testing.T) {
		assert.Error(t, fsys.Remove("/"))
		assert.True(t, fsys.IsDir("/"))
	})
}

func TestFS_Rename(t *testing.T) {
	setup := func(t *testing.T) *FS {
		fsys := New()
		require.NoError(t, fsys.Mkdir("src", 0755))
		require.NoError(t, fsys.Mkdir("src/sub", 0755))
		require.NoError(t, fsys.CreateEmpty("src/sub/file", 0644))
		require.NoError(t, fsys.CreateEmpty("src/top", 0644))
		return fsys
	}

	t.Run("directory tree", func(t *testing.T) {
		fsys := setup(t)
		require.NoError(t, fsys.Rename("src", "dst"))
		assert.False(t, fsys.Exists("src"))
		assert.True(t, fsys.IsDir("dst/sub"))
		assert.True(t, fsys.IsFile("dst/sub/file"))
		assert.True(t, fsys.IsFile("dst/top"))
	})

	t.Run("file", func(t *testing.T) {
		fsys := setup(t)
		require.NoError(t, fsys.Rename("src/top", "moved"))
		assert.False(t, fsys.Exists("src/top"))
		assert.True(t, fsys.IsFile("moved"))
	})

	t.Run("missing destination parent", func(t *testing.T) {
		fsys := setup(t)
		err := fsys.Rename("src", "x/y")
		assert.True(t, errors.Is(err, fs.ErrNotExist))
		assert.True(t, fsys.IsDir("src"))
	})

	t.Run("missing source", func(t *testing.T) {
		fsys := setup(t)
		err := fsys.Rename("nope", "dst")
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("into itself", func(t *testing.T) {
		fsys := setup(t)
		err := fsys.Rename("src", "src/sub/inner")
		assert.True(t, errors.Is(err, syscall.EINVAL))
	})

	t.Run("onto a non-empty directory", func(t *testing.T) {
		fsys := setup(t)
		require.NoError(t, fsys.Mkdir("full", 0755))
		require.NoError(t, fsys.CreateEmpty("full/x", 0644))
		err := fsys.Rename("src", "full")
		assert.True(t, errors.Is(err, syscall.ENOTEMPTY))
	})

	t.Run("destination below a file", func(t *testing.T) {
		fsys := setup(t)
		err := fsys.Rename("src/sub", "src/top/sub")
		assert.True(t, errors.Is(err, syscall.ENOTDIR))
		assert.True(t, fsys.IsDir("src/sub"))
	})

	t.Run("file onto a directory", func(t *testing.T) {
		fsys := setup(t)
		err := fsys.Rename("src/top", "src/sub")
		assert.True(t, errors.Is(err, syscall.EISDIR))
	})
}

func TestFS_WorkingDirectory(t *testing.T) {
	fsys := New()

	wd, err := fsys.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/", wd)

	require.NoError(t, fsys.Mkdir("/home", 0755))
	require.NoError(t, fsys.Chdir("/home"))
	require.NoError(t, fsys.CreateEmpty("notes", 0644))
	assert.True(t, fsys.IsFile("/home/notes"))
	assert.True(t, fsys.IsFile("../home/./notes"))

	err = fsys.Chdir("/missing")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFS_Failures(t *testing.T) {
	fsys := New()
	fsys.Fail(OpMkdir, "/blocked", syscall.EACCES)

	err := fsys.Mkdir("blocked", 0755)
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.False(t, fsys.Exists("blocked"))

	fsys.ClearFailures()
	assert.NoError(t, fsys.Mkdir("blocked", 0755))
}

func TestFS_Concurrency(t *testing.T) {
	fsys := New()
	require.NoError(t, fsys.Mkdir("dir", 0755))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "dir/" + string(rune('a'+i))
			if err := fsys.CreateEmpty(name, 0644); err != nil {
				t.Errorf("CreateEmpty failed: %v", err)
			}
			fsys.ReadDirNames("dir")
		}(i)
	}
	wg.Wait()

	names, err := fsys.ReadDirNames("dir")
	require.NoError(t, err)
	assert.Len(t, names, 10)
}
