package asset

import (
	"strconv"
	"strings"
)

// Content encodings supported for precompressed variants.
const (
	// EncodingGzip is stored as "<path>.gz".
	EncodingGzip = "gzip"

	// EncodingZstd is stored as "<path>.zst".
	EncodingZstd = "zstd"
)

// KnownEncodings returns the content encodings with precompression support.
func KnownEncodings() []string {
	return []string{EncodingGzip, EncodingZstd}
}

// EncodingExt returns the file extension a variant of the encoding is
// stored under.
func EncodingExt(encoding string) (string, bool) {
	switch encoding {
	case EncodingGzip:
		return ".gz", true
	case EncodingZstd:
		return ".zst", true
	default:
		return "", false
	}
}

// negotiate picks the payload for an Accept-Encoding header. Among the
// acceptable precompressed variants the smallest wins; identity is always
// acceptable and wins ties. The choice depends only on the file and the
// header, so identical requests get identical responses.
func negotiate(f *File, acceptEncoding string) ([]byte, string) {
	if len(f.variants) == 0 || acceptEncoding == "" {
		return f.data, ""
	}

	accepted, wildcard := acceptedEncodings(acceptEncoding)
	body, encoding := f.data, ""
	for _, name := range f.Encodings() {
		b := f.variants[name]
		ok, listed := accepted[name]
		if !listed {
			ok = wildcard
		}
		if ok && len(b) < len(body) {
			body, encoding = b, name
		}
	}
	return body, encoding
}

// acceptedEncodings parses an Accept-Encoding header into a set of
// explicitly listed codings (true when acceptable, false when refused
// with q=0) and a flag for a wildcard entry.
func acceptedEncodings(header string) (map[string]bool, bool) {
	listed := make(map[string]bool)
	wildcard := false

	for _, part := range strings.Split(header, ",") {
		token, params, _ := strings.Cut(part, ";")
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}

		acceptable := true
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if v, err := strconv.ParseFloat(strings.TrimSpace(q), 64); err == nil && v <= 0 {
				acceptable = false
			}
		}

		if token == "*" {
			wildcard = acceptable
			continue
		}
		listed[token] = acceptable
	}
	return listed, wildcard
}
