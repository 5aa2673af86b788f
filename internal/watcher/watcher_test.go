package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codexplain/internal/config"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	defer d.stop()

	var mu sync.Mutex
	var calls [][]string
	handler := func(files []string) error {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, files)
		return nil
	}

	for i := 0; i < 5; i++ {
		d.add(FileChangeEvent{Path: "a.py", Operation: "WRITE", Timestamp: time.Now()}, handler)
	}
	d.add(FileChangeEvent{Path: "b.py", Operation: "WRITE", Timestamp: time.Now()}, handler)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a.py", "b.py"}, calls[0])
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	var mu sync.Mutex
	called := false
	handler := func([]string) error {
		mu.Lock()
		defer mu.Unlock()
		called = true
		return nil
	}

	d.add(FileChangeEvent{Path: "a.py"}, handler)
	d.stop()

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, called)
}

func TestFileWatcher_PythonFileFilter(t *testing.T) {
	fw, err := NewFileWatcher(config.DefaultConfig())
	require.NoError(t, err)
	defer fw.Close()

	assert.True(t, fw.isPythonFile("pkg/app.py"))
	assert.True(t, fw.isPythonFile("script.pyw"))
	assert.False(t, fw.isPythonFile("main.go"))
	assert.False(t, fw.isPythonFile("README.md"))
}

func TestFileWatcher_SkipRules(t *testing.T) {
	fw, err := NewFileWatcher(config.DefaultConfig())
	require.NoError(t, err)
	defer fw.Close()

	assert.True(t, fw.shouldSkipDir("project/__pycache__"))
	assert.True(t, fw.shouldSkipDir("project/.venv"))
	assert.False(t, fw.shouldSkipDir("project/src"))

	assert.True(t, fw.shouldSkipFile("dir/.hidden.py"))
	assert.True(t, fw.shouldSkipFile("dir/app.py~"))
	assert.True(t, fw.shouldSkipFile("dir/.app.py.swp"))
	assert.False(t, fw.shouldSkipFile("dir/app.py"))
}

func TestFileWatcher_WatchesParentDirOfFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.py")
	require.NoError(t, os.WriteFile(file, []byte("x = 1\n"), 0644))

	fw, err := NewFileWatcher(config.DefaultConfig())
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.Watch([]string{file}, func([]string) error { return nil }))
	assert.Contains(t, fw.GetWatchedPaths(), dir)
}
