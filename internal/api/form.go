package api

import (
	"fmt"
	"mime"
	"net/textproto"
	"path/filepath"
	"strings"
)

// Form is a multipart body: ordered text fields plus file parts. Callers pick
// the body kind (JSON or multipart) per endpoint; the wire detail stays here.
type Form struct {
	Fields []FormField
	Files  []FormFile
}

// FormField is one text part.
type FormField struct {
	Name  string
	Value string
}

// FormFile is one file part with an explicit content type.
type FormFile struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

func (f FormFile) partHeader() textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`,
		escapeQuotes(f.Field), escapeQuotes(f.Name)))
	contentType := f.ContentType
	if contentType == "" {
		contentType = ContentTypeForFilename(f.Name)
	}
	h.Set("Content-Type", contentType)
	return h
}

// ContentTypeForFilename infers an image content type from the file
// extension, defaulting to JPEG the way the mobile client did.
func ContentTypeForFilename(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); strings.HasPrefix(byExt, "image/") {
			return byExt
		}
	}
	return "image/jpeg"
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
