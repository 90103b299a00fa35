package client

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"reflect"
	"strings"
)

const (
	mediaXML  = "text/xml"
	mediaJSON = "application/json"
)

// transformBody encodes body according to the Content-Type found in headers.
// A nil payload with a nil error means nothing is written.
func transformBody(body any, headers http.Header) ([]byte, error) {
	if isEmptyBody(body) {
		return nil, nil
	}

	values, present := headers[http.CanonicalHeaderKey("Content-Type")]
	if !present {
		// Raw bodies go out untouched; anything else has no encoding to pick.
		if raw, ok := rawBody(body); ok {
			return raw, nil
		}
		return nil, fmt.Errorf("%w: body of type %T", ErrMissingContentType, body)
	}

	var contentType string
	if len(values) > 0 {
		contentType = strings.ToLower(strings.TrimSpace(values[0]))
	}
	if contentType == "" {
		return nil, fmt.Errorf("%w: empty Content-Type header", ErrMissingContentType)
	}

	switch {
	case strings.Contains(contentType, mediaXML):
		if raw, ok := rawBody(body); ok {
			return raw, nil
		}
		b, err := xml.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding xml body: %w", err)
		}
		return b, nil

	case strings.Contains(contentType, mediaJSON):
		if b, ok := body.([]byte); ok {
			return b, nil
		}
		return encodeJSON(body)

	default:
		if raw, ok := rawBody(body); ok {
			return raw, nil
		}
		return nil, fmt.Errorf("%w: %T as %q", ErrUnsupportedBody, body, contentType)
	}
}

// encodeJSON marshals v without HTML escaping and without the encoder's
// trailing newline.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding json body: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func rawBody(body any) ([]byte, bool) {
	switch b := body.(type) {
	case string:
		return []byte(b), true
	case []byte:
		return b, true
	case json.RawMessage:
		return b, true
	default:
		return nil, false
	}
}

// isEmptyBody reports whether body has nothing to send: nil, a nil pointer,
// a bool or number, or an empty string, slice, array or map.
func isEmptyBody(body any) bool {
	if body == nil {
		return true
	}

	v := reflect.ValueOf(body)
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}
