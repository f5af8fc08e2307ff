package httpclient

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// methodOverrideField tells the backend to treat a multipart POST as another
// verb. Native PUT cannot carry multipart bodies through the backend's
// framework, so updates with file content post with `_method=PUT`.
const methodOverrideField = "_method"

// Form builds a multipart request body. File content is buffered up front so
// the 401 retry can replay the request.
type Form struct {
	fields   map[string]string
	files    []filePart
	override string
}

type filePart struct {
	field    string
	filename string
	content  []byte
}

func NewForm() *Form {
	return &Form{fields: make(map[string]string)}
}

// Set adds a text field.
func (f *Form) Set(key, value string) *Form {
	f.fields[key] = value
	return f
}

// File adds a file part with buffered content.
func (f *Form) File(field, filename string, content []byte) *Form {
	f.files = append(f.files, filePart{field: field, filename: filename, content: content})
	return f
}

// MethodOverride marks the form as an update carried over POST.
func (f *Form) MethodOverride(method string) *Form {
	f.override = method
	return f
}

// Encode renders the form into a content type and body.
func (f *Form) Encode() (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if f.override != "" {
		if err := w.WriteField(methodOverrideField, f.override); err != nil {
			return "", nil, fmt.Errorf("httpclient: writing method override: %w", err)
		}
	}
	for key, value := range f.fields {
		if err := w.WriteField(key, value); err != nil {
			return "", nil, fmt.Errorf("httpclient: writing form field %q: %w", key, err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return "", nil, fmt.Errorf("httpclient: creating file part %q: %w", file.field, err)
		}
		if _, err := part.Write(file.content); err != nil {
			return "", nil, fmt.Errorf("httpclient: writing file part %q: %w", file.field, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("httpclient: closing multipart writer: %w", err)
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
