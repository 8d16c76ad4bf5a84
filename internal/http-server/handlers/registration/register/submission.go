package register

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"eventManager/internal/forms"

	"github.com/go-chi/render"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling attachments to temporary files.
const multipartMemory = 8 << 20

func decodeSubmission(r *http.Request, maxBytes int64) (forms.Submission, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return decodeMultipart(r, maxBytes)
	}
	return decodeJSON(r.Body)
}

func decodeMultipart(r *http.Request, maxBytes int64) (forms.Submission, error) {
	if err := r.ParseMultipartForm(min(maxBytes, multipartMemory)); err != nil {
		return forms.Submission{}, err
	}

	sub := forms.Submission{
		Values: r.MultipartForm.Value,
		Files:  make(map[string]*forms.Attachment, len(r.MultipartForm.File)),
	}

	for key, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		sub.Files[key] = attachment(headers[0])
	}

	return sub, nil
}

func attachment(fh *multipart.FileHeader) *forms.Attachment {
	return &forms.Attachment{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// decodeJSON flattens a JSON object into form values: scalars become a single
// value, arrays one value per element and null is omitted. Attachments can
// only be sent as multipart.
func decodeJSON(body io.Reader) (forms.Submission, error) {
	var raw map[string]any
	if err := render.DecodeJSON(body, &raw); err != nil {
		return forms.Submission{}, err
	}

	sub := forms.Submission{Values: make(map[string][]string, len(raw))}

	for key, v := range raw {
		switch v := v.(type) {
		case nil:
		case []any:
			values := make([]string, 0, len(v))
			for _, item := range v {
				s, err := scalar(item)
				if err != nil {
					return forms.Submission{}, fmt.Errorf("field %s: %w", key, err)
				}
				values = append(values, s)
			}
			sub.Values[key] = values
		default:
			s, err := scalar(v)
			if err != nil {
				return forms.Submission{}, fmt.Errorf("field %s: %w", key, err)
			}
			sub.Values[key] = []string{s}
		}
	}

	return sub, nil
}

func scalar(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case json.Number:
		return v.String(), nil
	}
	return "", fmt.Errorf("unsupported value %v", v)
}
