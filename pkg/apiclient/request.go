package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
)

// Request describes one upstream call. It is built per call and discarded afterwards.
// At most one of JSON and Form should be set.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	JSON   any
	Form   *Form
}

// Form is a multipart/form-data body with plain fields and an optional file.
type Form struct {
	Fields map[string]string
	File   *FilePart
}

// FilePart is the file section of a multipart body.
type FilePart struct {
	Field    string
	FileName string
	Content  io.Reader
}

func (r *Request) String() string {
	return r.Method + " " + r.Path
}

// encode renders the form into memory and returns it with its content type.
func (f *Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if f.File != nil {
		part, err := w.CreateFormFile(f.File.Field, f.File.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, f.File.Content); err != nil {
			return nil, "", fmt.Errorf("read %s: %w", f.File.FileName, err)
		}
	}
	for k, v := range f.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
