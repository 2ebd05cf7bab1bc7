package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

// DecodeJSON decodes a JSON request body into dst.
// It rejects multiple JSON values.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		return domain.ErrInvalidJSON(err)
	}

	// Disallow trailing data: {}{}
	if err := dec.Decode(&struct{}{}); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return domain.ErrInvalidJSON(err)
	}

	return domain.ErrInvalidJSON(errors.New("multiple JSON values"))
}

// DecodeJSONObject reads the request input as a loose key/value object so
// handlers can tell absent keys from empty ones.
// An empty body (or a JSON null) is an empty object. Form encoded bodies
// are accepted too, each key taking its first value.
func DecodeJSONObject(r *http.Request) (map[string]any, error) {
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return nil, domain.ErrInvalidJSON(err)
		}
		out := make(map[string]any, len(r.PostForm))
		for k, v := range r.PostForm {
			if len(v) > 0 {
				out[k] = v[0]
			}
		}
		return out, nil
	}

	if r.Body == nil {
		return map[string]any{}, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, domain.ErrInvalidJSON(err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var v any
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err := DecodeJSON(r, &v); err != nil {
		return nil, err
	}

	switch obj := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return obj, nil
	default:
		return nil, domain.ErrInvalidJSON(errors.New("body must be a JSON object"))
	}
}

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/x-www-form-urlencoded"
}
