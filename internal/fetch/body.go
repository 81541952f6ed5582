package fetch

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// ReadBody reads up to maxBytes of the response body and decodes it per the
// declared Content-Encoding. The raw read is also capped at maxBytes.
func ReadBody(resp *http.Response, maxBytes int64) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, err
	}
	return DecodeBytes(raw, resp.Header.Get("Content-Encoding"), maxBytes), nil
}

// DecodeBytes decompresses raw according to encoding (gzip, deflate, br).
// Unknown encodings and decoder failures fall back to the raw bytes; the
// decoded output is capped at maxBytes.
func DecodeBytes(raw []byte, encoding string, maxBytes int64) []byte {
	var r io.Reader
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip":
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return raw
		}
		defer gz.Close()
		r = gz
	case "br":
		r = brotli.NewReader(bytes.NewReader(raw))
	case "deflate":
		fr := flate.NewReader(bytes.NewReader(raw))
		defer fr.Close()
		r = fr
	default:
		return raw
	}

	decoded, err := io.ReadAll(io.LimitReader(r, maxBytes))
	if err != nil || len(decoded) == 0 {
		return raw
	}
	return decoded
}
