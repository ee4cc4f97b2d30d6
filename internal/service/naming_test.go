package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "a/b/c", joinPath("a", "b", "c"))
	assert.Equal(t, "a/b", joinPath("a/", "/b"))
	assert.Equal(t, "a/b", joinPath("/a", "b/"))
	assert.Equal(t, "a", joinPath("", "a"))
	assert.Equal(t, "", joinPath(""))
}

func TestSplitFilename(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantStem string
		wantExt  string
		wantErr  bool
	}{
		{name: "plain name", raw: "report.pdf", wantStem: "report", wantExt: "pdf"},
		{name: "multiple dots split at last", raw: "archive.tar.gz", wantStem: "archive.tar", wantExt: "gz"},
		{name: "no extension", raw: "README", wantStem: "README", wantExt: ""},
		{name: "leading dot keeps whole name", raw: ".gitignore", wantStem: ".gitignore", wantExt: ""},
		{name: "percent-encoded name decoded", raw: "quarterly%20report.pdf", wantStem: "quarterly report", wantExt: "pdf"},
		{name: "plus stays literal", raw: "a+b.pdf", wantStem: "a+b", wantExt: "pdf"},
		{name: "empty name", raw: "", wantErr: true},
		{name: "whitespace only", raw: "   ", wantErr: true},
		{name: "bad percent encoding", raw: "report%zz.pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stem, ext, err := splitFilename(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStem, stem)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestComposeName(t *testing.T) {
	assert.Equal(t, "report.pdf", composeName("report", "pdf", 0))
	assert.Equal(t, "report (1).pdf", composeName("report", "pdf", 1))
	assert.Equal(t, "report (12).pdf", composeName("report", "pdf", 12))
	assert.Equal(t, "README", composeName("README", "", 0))
	assert.Equal(t, "README (3)", composeName("README", "", 3))
}

func TestSanitizeStorageLogin(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain ascii untouched", in: "alice123", want: "alice123"},
		{name: "slashes stripped", in: "a/li\\ce", want: "alice"},
		{name: "combining marks dropped", in: "café", want: "cafe"},
		{name: "whitespace runs collapse to dash", in: "john   doe", want: "john-doe"},
		{name: "disallowed runes become underscore", in: "a@b#c", want: "a_b_c"},
		{name: "repeats collapse", in: "a@@b--c", want: "a_b-c"},
		{name: "edges trimmed", in: "_-alice.-_", want: "alice"},
		{name: "allowed punctuation survives", in: "a.b!c(d)'e*f", want: "a.b!c(d)'e*f"},
		{name: "only disallowed runes become empty", in: "///@@@", want: ""},
		{name: "truncated to 64", in: strings.Repeat("a", 80), want: strings.Repeat("a", 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeStorageLogin(tt.in))
		})
	}
}
