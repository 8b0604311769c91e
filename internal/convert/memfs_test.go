package convert_test

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"testing/fstest"
)

// memFS is an in-memory convert.FS over fstest.MapFS. Paths are slash
// separated and relative.
type memFS struct {
	mu    sync.Mutex
	files fstest.MapFS
	// failWrite makes WriteFile fail for this path.
	failWrite string
}

func newMemFS(files map[string]string) *memFS {
	m := &memFS{files: fstest.MapFS{}}
	for name, content := range files {
		m.files[name] = &fstest.MapFile{Data: []byte(content), Mode: 0o644}
	}
	return m
}

func (m *memFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fs.Stat(m.files, name)
}

func (m *memFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fs.ReadDir(m.files, name)
}

func (m *memFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fs.ReadFile(m.files, name)
}

func (m *memFS) WriteFile(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name == m.failWrite {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrPermission}
	}
	if _, err := fs.Stat(m.files, path.Dir(name)); err != nil {
		return err
	}
	m.files[name] = &fstest.MapFile{Data: append([]byte(nil), data...), Mode: 0o644}
	return nil
}

func (m *memFS) MkdirAll(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for dir := name; dir != "." && dir != "/"; dir = path.Dir(dir) {
		if existing, ok := m.files[dir]; ok {
			if !existing.Mode.IsDir() {
				return &fs.PathError{Op: "mkdir", Path: dir, Err: fs.ErrExist}
			}
			continue
		}
		m.files[dir] = &fstest.MapFile{Mode: fs.ModeDir | 0o755}
	}
	return nil
}

func (m *memFS) RemoveAll(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for existing := range m.files {
		if existing == name || strings.HasPrefix(existing, name+"/") {
			delete(m.files, existing)
		}
	}
	return nil
}

func (m *memFS) CopyFile(src, dst string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[src]
	if !ok || file.Mode.IsDir() {
		return 0, &fs.PathError{Op: "open", Path: src, Err: fs.ErrNotExist}
	}
	if _, err := fs.Stat(m.files, path.Dir(dst)); err != nil {
		return 0, err
	}
	m.files[dst] = &fstest.MapFile{Data: append([]byte(nil), file.Data...), Mode: file.Mode}
	return int64(len(file.Data)), nil
}

func (m *memFS) content(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	file, ok := m.files[name]
	if !ok || file.Mode.IsDir() {
		return "", false
	}
	return string(file.Data), true
}

func (m *memFS) isDir(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, err := fs.Stat(m.files, name)
	return err == nil && info.IsDir()
}

// snapshot returns every regular file under prefix as "path=content" lines.
func (m *memFS) snapshot(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for name, file := range m.files {
		if !strings.HasPrefix(name, prefix) || file.Mode.IsDir() {
			continue
		}
		out = append(out, name+"="+string(file.Data))
	}
	sort.Strings(out)
	return out
}

// failingCopyFS fails every copy whose source is failSrc and counts calls.
type failingCopyFS struct {
	*memFS
	failSrc string

	callsMu sync.Mutex
	calls   int
}

func (f *failingCopyFS) CopyFile(src, dst string) (int64, error) {
	f.callsMu.Lock()
	f.calls++
	f.callsMu.Unlock()
	if src == f.failSrc {
		return 0, &fs.PathError{Op: "write", Path: dst, Err: fs.ErrPermission}
	}
	return f.memFS.CopyFile(src, dst)
}

func (f *failingCopyFS) copyCalls() int {
	f.callsMu.Lock()
	defer f.callsMu.Unlock()
	return f.calls
}
