package constants

import "strings"

// SourceType tags what kind of payload a caller hands the pipeline.
type SourceType string

const (
	SourceImage SourceType = "image"
	SourcePDF   SourceType = "pdf"
	SourceText  SourceType = "text"
)

// MapExtToSource infers the source type from a file extension (with or
// without the leading dot). Empty string means unsupported.
func MapExtToSource(ext string) SourceType {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg", "png", "webp", "bmp", "gif", "tif", "tiff":
		return SourceImage
	case "pdf":
		return SourcePDF
	case "txt", "text", "md":
		return SourceText
	default:
		return ""
	}
}

// DefaultMIME returns the MIME tag sent to the OCR backend when the caller
// did not embed one in a data URL.
func DefaultMIME(st SourceType) string {
	switch st {
	case SourcePDF:
		return "application/pdf"
	case SourceImage:
		return "image/jpeg"
	default:
		return ""
	}
}
