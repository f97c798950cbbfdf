package rename

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCandidateName(t *testing.T) {
	cases := []struct {
		name     string
		original string
		text     string
		want     string
	}{
		{"appends extension", "movie.mkv", "myclip", "myclip.mkv"},
		{"keeps existing extension", "movie.mkv", "myclip.mkv", "myclip.mkv"},
		{"no extension on original", "file", "renamed", "renamed"},
		{"multi dot original", "archive.tar.gz", "backup", "backup.gz"},
		{"trims whitespace", "doc.pdf", "  report ", "report.pdf"},
		{"empty text stays empty", "doc.pdf", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildCandidateName(tc.original, tc.text))
		})
	}
}

func TestBuildCandidateNameEmptyTextWithoutExtension(t *testing.T) {
	assert.Equal(t, "", BuildCandidateName("file", ""))
}
