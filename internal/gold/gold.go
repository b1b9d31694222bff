// Package gold implements golden files.
package gold

import (
	"bytes"
	"flag"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const defaultDir = "_golden"

// Update reports whether golden files update is requested.
//
// Call Init() in TestMain to propagate.
var Update bool

// Init should be called in TestMain.
func Init() {
	flag.BoolVar(&Update, "update", false, "update golden files")
}

// Path returns path to golden file.
func Path(elems ...string) string {
	return filepath.Join(
		append([]string{defaultDir}, elems...)...,
	)
}

// ReadFile reads golden file.
func ReadFile(t testing.TB, elems ...string) []byte {
	t.Helper()

	p := Path(elems...)
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("golden file %s: %+v", path.Join(elems...), err)
	}

	return data
}

// filename returns normalized file name from provided name elements,
// falling back to the test name.
func filename(t testing.TB, name ...string) string {
	if len(name) == 0 {
		name = []string{t.Name()}
	}
	s := strings.Join(name, "_")
	for _, c := range []string{"/", " ", "#"} {
		s = strings.ReplaceAll(s, c, "_")
	}
	return strings.ToLower(s)
}

// writeFile writes golden file, creating the directory if needed.
func writeFile(t testing.TB, data []byte, name string) {
	t.Helper()

	p := Path(name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, data, 0o644))
}

// Bytes checks data against the golden file, updating it when -update is
// set.
func Bytes(t testing.TB, data []byte, name ...string) {
	t.Helper()

	fileName := filename(t, name...) + ".raw"
	if Update {
		writeFile(t, data, fileName)
		return
	}

	expected := ReadFile(t, fileName)
	if !bytes.Equal(expected, data) {
		t.Error("golden file mismatch")
		t.Errorf("expected: %x", expected)
		t.Errorf("got:      %x", data)
	}
}

// Str checks s against the golden file, updating it when -update is set.
func Str(t testing.TB, s string, name ...string) {
	t.Helper()

	fileName := filename(t, name...)
	if Update {
		writeFile(t, []byte(s), fileName)
		return
	}

	require.Equal(t, string(ReadFile(t, fileName)), s)
}
