package shell

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabula/tabula/internal/config"
)

func testShell(t *testing.T) *Shell {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(config.DefaultConfig(), logger)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadedShell(t *testing.T) *Shell {
	t.Helper()
	s := testShell(t)
	path := writeCSV(t, "id,value,tag\n1,10,a\n2,20,b\n3,30,a\n4,40,c\n")
	require.NoError(t, s.Load(path))
	return s
}

func run(t *testing.T, s *Shell, line string) string {
	t.Helper()
	var buf bytes.Buffer
	quit := s.Execute(line, &buf)
	require.False(t, quit, "unexpected quit from %q", line)
	return buf.String()
}

func TestExecuteQuit(t *testing.T) {
	s := testShell(t)
	var buf bytes.Buffer
	assert.True(t, s.Execute("quit", &buf))
	assert.True(t, s.Execute("exit", &buf))
	assert.False(t, s.Execute("", &buf))
}

func TestExecuteUnknownCommand(t *testing.T) {
	s := testShell(t)
	out := run(t, s, "frobnicate")
	assert.Contains(t, out, "unknown command")
}

func TestCommandsRequireDataset(t *testing.T) {
	s := testShell(t)
	for _, line := range []string{"list", "describe", "sort id", "regress y x"} {
		out := run(t, s, line)
		assert.Contains(t, out, "no dataset loaded", line)
	}
}

func TestUseAndList(t *testing.T) {
	s := testShell(t)
	path := writeCSV(t, "id,x\n1,1.5\n2,2.5\n")
	out := run(t, s, "use "+path)
	assert.Contains(t, out, "Loaded 2 vars and 2 observations")

	out = run(t, s, "list")
	assert.Contains(t, out, "id (int)")
	assert.Contains(t, out, "x (float)")
	assert.Contains(t, out, "2.5")
}

func TestUseMissingFile(t *testing.T) {
	s := testShell(t)
	out := run(t, s, "use /no/such/file.csv")
	assert.Contains(t, out, "Error:")
}

func TestGenerateAndReplace(t *testing.T) {
	s := loadedShell(t)
	out := run(t, s, "generate double = value * 2")
	assert.Contains(t, out, "generated double")

	v, err := s.Dataset().Value("double", 3)
	require.NoError(t, err)
	assert.Equal(t, 80.0, v)

	run(t, s, "replace double = 0 if id > 2")
	v, err = s.Dataset().Value("double", 0)
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)
	v, err = s.Dataset().Value("double", 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestGenerateUsage(t *testing.T) {
	s := loadedShell(t)
	out := run(t, s, "generate nonsense")
	assert.Contains(t, out, "usage: generate")
}

func TestDropAndKeep(t *testing.T) {
	s := loadedShell(t)
	run(t, s, "drop if id > 2")
	assert.Equal(t, 2, s.Dataset().RowCount())

	run(t, s, "keep id")
	assert.Equal(t, []string{"id"}, s.Dataset().Columns())
}

func TestKeepIfRows(t *testing.T) {
	s := loadedShell(t)
	run(t, s, "keep if tag == 'a'")
	assert.Equal(t, 2, s.Dataset().RowCount())
}

func TestRenameAndSort(t *testing.T) {
	s := loadedShell(t)
	out := run(t, s, "rename value score")
	assert.Contains(t, out, "renamed value to score")
	assert.Equal(t, []string{"id", "score", "tag"}, s.Dataset().Columns())

	run(t, s, "sort score desc")
	v, err := s.Dataset().Value("id", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)
}

func TestDescribeOutput(t *testing.T) {
	s := loadedShell(t)
	out := run(t, s, "describe value")
	assert.Contains(t, out, "var")
	assert.Contains(t, out, "value")
	assert.Contains(t, out, "25.0000")
}

func TestTabulateOutput(t *testing.T) {
	s := loadedShell(t)
	out := run(t, s, "tabulate tag")
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "50.00")
}

func TestGroupOutput(t *testing.T) {
	s := loadedShell(t)
	out := run(t, s, "group tag value sum")
	assert.Contains(t, out, "tag")
	assert.Contains(t, out, "40.0000")
}

func TestRegressOutput(t *testing.T) {
	s := loadedShell(t)
	out := run(t, s, "regress value id")
	assert.Contains(t, out, "_cons")
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "R2=1.0000 N=4")
}

func TestIndexAndLookup(t *testing.T) {
	s := loadedShell(t)
	out := run(t, s, "index tag")
	assert.Contains(t, out, "indexed tag")

	out = run(t, s, "lookup tag a")
	assert.Contains(t, out, "[0 2]")
}

func TestUndoCommand(t *testing.T) {
	s := loadedShell(t)
	run(t, s, "sort value desc")
	out := run(t, s, "undo")
	assert.Contains(t, out, "undo successful")

	v, err := s.Dataset().Value("id", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestSaveWritesFile(t *testing.T) {
	s := loadedShell(t)
	path := filepath.Join(t.TempDir(), "out.csv")
	out := run(t, s, "save "+path)
	assert.Contains(t, out, "Saved to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,value,tag\n"))
}

func TestHelpListsCommands(t *testing.T) {
	s := testShell(t)
	out := run(t, s, "help")
	for _, name := range []string{"use", "regress", "undo", "quit"} {
		assert.Contains(t, out, name)
	}
}

func TestRunLoopEndsAtQuit(t *testing.T) {
	s := loadedShell(t)
	var buf bytes.Buffer
	s.Run(strings.NewReader("list\nquit\nlist\n"), &buf)
	out := buf.String()
	assert.Contains(t, out, "Welcome")
	assert.Equal(t, 1, strings.Count(out, "id (int)"))
}

func TestSplitArgs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitArgs("a  b"))
	assert.Equal(t, []string{"hello world", "x"}, splitArgs(`"hello world" x`))
	assert.Equal(t, []string{"it's"}, splitArgs(`"it's"`))
	assert.Nil(t, splitArgs("   "))
}

func TestLookupValueCoercion(t *testing.T) {
	s := loadedShell(t)
	out := run(t, s, "lookup id 3")
	assert.Contains(t, out, "[2]")
}
