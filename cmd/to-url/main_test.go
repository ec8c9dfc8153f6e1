package main

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caelisco/tourl/options"
	"github.com/caelisco/tourl/shellerr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCLIDefaults(t *testing.T) {
	c, err := parseCLI([]string{}, options.Config{}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "-", c.Output)
	assert.Equal(t, "none", c.Compress)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, "ulid", c.Identifier)
	assert.Equal(t, 30*time.Second, c.Timeout)
	assert.False(t, c.Verbose)
	assert.Empty(t, c.Files)
}

func TestParseCLIFlagsOverrideEnv(t *testing.T) {
	env := options.Config{Compression: "gzip", Verbose: true, LogFormat: "json", Identifier: "uuid"}

	c, err := parseCLI([]string{}, env, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "gzip", c.Compress)
	assert.True(t, c.Verbose)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, "uuid", c.Identifier)

	c, err = parseCLI([]string{"--compress", "br", "--no-verbose", "--id", "none", "a.json"}, env, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "br", c.Compress)
	assert.False(t, c.Verbose)
	assert.Equal(t, "none", c.Identifier)
	assert.Equal(t, []string{"a.json"}, c.Files)
}

func TestParseCLIRejectsGetWithPost(t *testing.T) {
	_, err := parseCLI([]string{"--get", "example.com", "--post", "example.com"}, options.Config{}, io.Discard)
	assert.Error(t, err)
}

func TestRunStdin(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json record", `{"mode": "normal", "userid": 31415}`, "mode=normal&userid=31415\n"},
		{"yaml record", "mode: normal\nuserid: 31415\n", "mode=normal&userid=31415\n"},
		{"single row table", `[{"foo": "1", "bar": "2"}]`, "foo=1&bar=2\n"},
		{"escaping", `{"q": "a b&c"}`, "q=a+b%26c\n"},
		{"empty record", `{}`, "\n"},
		{"last row wins", `[{"a": "1"}, {"a": "2"}]`, "a=2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			err := run([]string{}, strings.NewReader(tt.input), &stdout, io.Discard)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stdout.String())
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  error
	}{
		{"bare integer", `5`, shellerr.ErrUnsupportedInputShape},
		{"list of strings", `["a", "b"]`, shellerr.ErrUnsupportedInputShape},
		{"nested record", `{"a": {"b": "c"}}`, shellerr.ErrUnsupportedFieldType},
		{"bool field", `{"a": true}`, shellerr.ErrUnsupportedFieldType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run([]string{}, strings.NewReader(tt.input), io.Discard, io.Discard)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestRunPropagatedError(t *testing.T) {
	err := run([]string{}, strings.NewReader(`[{"a": "1"}, {"$error": "upstream failed"}]`), io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream failed")
}

func TestRunFiles(t *testing.T) {
	first := writeFile(t, "first.json", `{"a": "1"}`)
	second := writeFile(t, "second.yaml", "b: 2\n")

	var stdout bytes.Buffer
	require.NoError(t, run([]string{first, second}, nil, &stdout, io.Discard))
	assert.Equal(t, "b=2\n", stdout.String())
}

func TestRunMissingFile(t *testing.T) {
	err := run([]string{filepath.Join(t.TempDir(), "missing.json")}, nil, io.Discard, io.Discard)
	assert.Error(t, err)
}

func TestRunCompressedFileOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.gz")

	err := run([]string{"-o", out, "--compress", "gzip"}, strings.NewReader(`{"mode": "normal"}`), io.Discard, io.Discard)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, "mode=normal", string(data))
}

func TestRunCompressionFromEnv(t *testing.T) {
	t.Setenv("TOURL_COMPRESSION", "gzip")

	var stdout bytes.Buffer
	require.NoError(t, run([]string{}, strings.NewReader(`{"a": "1"}`), &stdout, io.Discard))

	gz, err := gzip.NewReader(&stdout)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, "a=1", string(data))

	stdout.Reset()
	require.NoError(t, run([]string{"--compress", "none"}, strings.NewReader(`{"a": "1"}`), &stdout, io.Discard))
	assert.Equal(t, "a=1\n", stdout.String())
}

func TestRunBadFlags(t *testing.T) {
	for _, args := range [][]string{
		{"--compress", "zip"},
		{"--id", "serial"},
		{"--log-format", "xml"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			err := run(args, strings.NewReader(`{}`), io.Discard, io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestRunVerboseLogs(t *testing.T) {
	var stderr bytes.Buffer
	err := run([]string{"--verbose", "--log-format", "json"}, strings.NewReader(`{"a": "1"}`), io.Discard, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), `"msg":"to url"`)
	assert.Contains(t, stderr.String(), `"input":"standard input"`)
}

func TestRunDelivery(t *testing.T) {
	var received string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			received = r.URL.RawQuery
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			received = string(body)
		}
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	tests := []struct {
		name   string
		args   []string
		status string
		fails  bool
	}{
		{"get", []string{"--get", server.URL + "/search"}, "200 OK", false},
		{"post", []string{"--post", server.URL + "/form"}, "200 OK", false},
		{"not found", []string{"--post", server.URL + "/missing"}, "404 Not Found", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			received = ""
			var stdout bytes.Buffer
			err := run(tt.args, strings.NewReader(`{"q": "a b"}`), &stdout, io.Discard)
			if tt.fails {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, fmt.Sprintln(tt.status), stdout.String())
			assert.Equal(t, "q=a+b", received)
		})
	}
}

func TestRunWithoutIdentifier(t *testing.T) {
	var stderr bytes.Buffer
	err := run([]string{"--verbose", "--log-format", "json", "--id", "none"}, strings.NewReader(`{"a": "1"}`), io.Discard, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), `"msg":"to url"`)
	assert.NotContains(t, stderr.String(), `"id":`)
}
