// Package testutils holds fixtures shared by the package tests.
package testutils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Project is a temporary directory of input files.
type Project struct {
	Dir   string
	paths map[string]string
}

// CreateTempProject writes files, keyed by slash-separated relative path,
// into a fresh temporary directory.
func CreateTempProject(t *testing.T, files map[string]string) *Project {
	t.Helper()
	p := &Project{Dir: t.TempDir(), paths: make(map[string]string, len(files))}
	for name, content := range files {
		p.Write(t, name, content)
	}
	return p
}

// Write creates or replaces one file of the project.
func (p *Project) Write(t *testing.T, name, content string) string {
	t.Helper()
	path := p.Path(name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	p.paths[name] = path
	return path
}

// Path returns the absolute path of name inside the project, whether or not
// the file exists.
func (p *Project) Path(name string) string {
	return filepath.Join(p.Dir, filepath.FromSlash(name))
}

// Paths maps names to paths.
func (p *Project) Paths(names ...string) []string {
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, p.Path(name))
	}
	return paths
}

// ReadFile returns the content of name, failing the test if it is missing.
func (p *Project) ReadFile(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(p.Path(name))
	require.NoError(t, err)
	return data
}

// WaitForContentChange waits until the file at path exists and differs from
// original (useful for testing file watchers)
func WaitForContentChange(t *testing.T, path string, original []byte, timeout time.Duration) []byte {
	t.Helper()
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil && !bytes.Equal(data, original) {
			return data
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("File %s did not change within %v", path, timeout)
	return nil
}
