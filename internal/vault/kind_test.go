package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		mime string
		want Kind
	}{
		{"video/mp4", KindVideo},
		{"audio/mpeg", KindAudio},
		{"image/jpeg", KindImage},
		{"application/pdf", KindDocument},
		{"text/plain", KindDocument},
		{"application/zip", KindArchive},
		{"application/gzip", KindArchive},
		{"application/octet-stream", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.mime))
		})
	}
}

func TestGlyph_AlwaysNonEmpty(t *testing.T) {
	for _, k := range []Kind{KindVideo, KindAudio, KindImage, KindDocument, KindArchive, KindOther, Kind("bogus")} {
		assert.NotEmpty(t, k.Glyph())
	}
}
