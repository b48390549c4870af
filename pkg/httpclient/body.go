package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"

	json "github.com/goccy/go-json"
)

// ContentTypeJSON is the content type of every non-multipart request.
const ContentTypeJSON = "application/json"

// Body is a request payload. Use JSON or Multipart to build one.
type Body interface {
	// encode returns the serialized payload and its content type.
	encode() (io.Reader, string, error)
}

type jsonBody struct {
	value any
}

// JSON returns a body that is sent as application/json.
func JSON(v any) Body {
	return jsonBody{value: v}
}

func (b jsonBody) encode() (io.Reader, string, error) {
	data, err := json.Marshal(b.value)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), ContentTypeJSON, nil
}

// Field is a scalar form field of a multipart body.
type Field struct {
	Name  string
	Value string
}

// File is a binary part of a multipart body.
type File struct {
	// Field is the form field name the server reads the file from (e.g. "data", "image").
	Field string
	// Name is the file name reported to the server.
	Name string
	// Content is read once when the request is sent.
	Content io.Reader
}

type multipartBody struct {
	fields []Field
	files  []File
}

// Multipart returns a body sent as multipart/form-data. Scalar fields are
// written first, in order, followed by the files.
func Multipart(fields []Field, files ...File) Body {
	return multipartBody{fields: fields, files: files}
}

func (b multipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range b.fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %q: %w", f.Name, err)
		}
	}
	for _, f := range b.files {
		if f.Content == nil {
			return nil, "", fmt.Errorf("file part %q has no content", f.Field)
		}
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part %q: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("failed to copy file part %q: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	// The boundary lives in the content type, so it must come from the writer.
	return &buf, w.FormDataContentType(), nil
}
