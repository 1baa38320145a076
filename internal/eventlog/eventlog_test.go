package eventlog

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, data string) []map[string]string {
	t.Helper()
	var out []map[string]string
	for _, line := range strings.Split(strings.TrimSpace(data), "\n") {
		var fields map[string]string
		require.NoError(t, jsoniter.Unmarshal([]byte(line), &fields), line)
		out = append(out, fields)
	}
	return out
}

func TestFile_WritesSessionTaggedLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Log("gcp_search_printer_success", map[string]string{"sizes": "2"})
	l.Log("gcp_details_failed", map[string]string{"code": "404", "error": "no such printer"})

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 2)

	assert.Equal(t, "gcp_search_printer_success", lines[0][EventKey])
	assert.Equal(t, "2", lines[0]["sizes"])
	assert.NotEmpty(t, lines[0][TimeKey])

	_, err := uuid.Parse(lines[0][SessionKey])
	require.NoError(t, err)
	assert.Equal(t, lines[0][SessionKey], lines[1][SessionKey])

	assert.Equal(t, "no such printer", lines[1]["error"])
	assert.Less(t, strings.Index(buf.String(), `"code"`), strings.Index(buf.String(), `"error"`))
}

func TestFile_SessionsDiffer(t *testing.T) {
	var a, b bytes.Buffer
	New(&a).Log("x", nil)
	New(&b).Log("x", nil)

	assert.NotEqual(t, decodeLines(t, a.String())[0][SessionKey], decodeLines(t, b.String())[0][SessionKey])
}

func TestOpen_AppendsAndCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.log")

	l, err := Open(path)
	require.NoError(t, err)
	l.Log("first", nil)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "second close is a no-op")
	l.Log("after-close", nil)

	l, err = Open(path)
	require.NoError(t, err)
	l.Log("second", nil)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := decodeLines(t, string(data))
	require.Len(t, lines, 2)
	assert.Equal(t, "first", lines[0][EventKey])
	assert.Equal(t, "second", lines[1][EventKey])

	_, err = Open("  ")
	assert.Error(t, err)
}

func TestFile_RedirectStdLog(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	restore := l.RedirectStdLog()
	log.Printf("token prewarm failed")
	restore()

	lines := decodeLines(t, buf.String())
	require.Len(t, lines, 1)
	assert.Equal(t, "token prewarm failed", lines[0][EventKey])
	assert.Equal(t, "stdlog", lines[0]["logger"])
}

func TestMemory(t *testing.T) {
	var m Memory
	params := map[string]string{"sizes": "1"}
	m.Log("a", params)
	params["sizes"] = "mutated"
	m.Log("b", nil)
	m.Log("a", map[string]string{"sizes": "3"})

	assert.Len(t, m.Entries(), 3)
	assert.Equal(t, "1", m.Entries()[0].Params["sizes"])

	last, ok := m.Last("a")
	require.True(t, ok)
	assert.Equal(t, "3", last.Params["sizes"])

	_, ok = m.Last("missing")
	assert.False(t, ok)

	var nop Nop
	nop.Log("ignored", nil)
}
