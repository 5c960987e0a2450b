package pipeline

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"slices"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/coderman400/AIArchitect/internal/config"
	"github.com/coderman400/AIArchitect/pkg/formatting"
)

// ContentTypePDF is the only document type accepted besides images.
const ContentTypePDF = "application/pdf"

var allowedTypes = []string{
	"image/png",
	"image/jpeg",
	"image/webp",
	ContentTypePDF,
}

// AllowedContentTypes returns the attachment mime types the model accepts.
func AllowedContentTypes() []string {
	return allowedTypes
}

// DetectContentType resolves an attachment mime type from the declared
// header, the file extension, and finally the content itself.
func DetectContentType(declared, filename string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return mt
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		if mt, _, err := mime.ParseMediaType(byExt); err == nil {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}

// PageCount returns the number of pages in a PDF.
func PageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), nil)
}

// ValidateInput checks the material against the agent limits.
func ValidateInput(in Input, cfg *config.AgentConfig) error {
	if len(in.Texts) == 0 && len(in.Attachments) == 0 {
		return ErrEmptyInput
	}
	if cfg.MaxAttachments > 0 && len(in.Attachments) > cfg.MaxAttachments {
		return fmt.Errorf("%w: %d attachments exceed limit of %d", ErrAttachmentRejected, len(in.Attachments), cfg.MaxAttachments)
	}
	for _, a := range in.Attachments {
		if err := validateAttachment(a, cfg); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrAttachmentRejected, a.Filename, err)
		}
	}
	return nil
}

func validateAttachment(a Attachment, cfg *config.AgentConfig) error {
	if len(a.Data) == 0 {
		return fmt.Errorf("empty file")
	}
	if !slices.Contains(allowedTypes, a.ContentType) {
		return fmt.Errorf("unsupported content type %q", a.ContentType)
	}
	if limit := cfg.MaxAttachmentBytes(); int64(len(a.Data)) > limit {
		return fmt.Errorf("size %s exceeds limit of %s",
			formatting.FormatBytes(int64(len(a.Data)), 1), formatting.FormatBytes(limit, 0))
	}
	if a.ContentType != ContentTypePDF {
		return nil
	}

	pages, err := PageCount(a.Data)
	if err != nil {
		return fmt.Errorf("unreadable pdf: %w", err)
	}
	if cfg.MaxPDFPages > 0 && pages > cfg.MaxPDFPages {
		return fmt.Errorf("%d pages exceed limit of %d", pages, cfg.MaxPDFPages)
	}
	return nil
}
