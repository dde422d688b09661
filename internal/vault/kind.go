package vault

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind is the coarse content classification of a stored file. It drives
// display glyphs only and is never authoritative.
type Kind string

const (
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindImage    Kind = "image"
	KindDocument Kind = "document"
	KindArchive  Kind = "archive"
	KindOther    Kind = "other"
)

// KindOf classifies a MIME type.
func KindOf(mime string) Kind {
	switch {
	case strings.HasPrefix(mime, "video/"):
		return KindVideo
	case strings.HasPrefix(mime, "audio/"):
		return KindAudio
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case mime == "application/pdf",
		strings.HasPrefix(mime, "text/"),
		strings.HasPrefix(mime, "application/msword"),
		strings.HasPrefix(mime, "application/vnd."):
		return KindDocument
	case mime == "application/zip",
		mime == "application/x-rar-compressed",
		mime == "application/x-tar",
		mime == "application/gzip",
		mime == "application/x-7z-compressed":
		return KindArchive
	default:
		return KindOther
	}
}

// Glyph returns the display symbol for the kind.
func (k Kind) Glyph() string {
	switch k {
	case KindVideo:
		return "🎥"
	case KindAudio:
		return "🎵"
	case KindImage:
		return "🖼"
	case KindDocument:
		return "📄"
	case KindArchive:
		return "📁"
	default:
		return "📎"
	}
}

// DetectMime sniffs the MIME type of the file at path, falling back to
// application/octet-stream when the file cannot be read.
func DetectMime(path string) string {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}
