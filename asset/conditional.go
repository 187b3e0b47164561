package asset

import (
	"net/http"
	"strings"
)

// RequestHeaders carries the request fields Conditional evaluates.
type RequestHeaders struct {
	// IfNoneMatch is the If-None-Match header value, empty when absent.
	IfNoneMatch string

	// IfModifiedSince is the If-Modified-Since header value, empty when absent.
	IfModifiedSince string

	// AcceptEncoding is the Accept-Encoding header value, empty when absent.
	AcceptEncoding string
}

// Decision is the computed response for serving a file. It is a pure
// value: writing it to a response writer is the caller's concern, which
// keeps the serving logic independent of any HTTP framework.
type Decision struct {
	// Status is http.StatusOK or http.StatusNotModified.
	Status int

	// Body is the payload for a 200 response. It is nil for 304.
	Body []byte

	// Encoding is the Content-Encoding of Body. Empty means identity.
	Encoding string

	// ContentType is the Content-Type header value for a 200 response.
	ContentType string

	// ContentLength is len(Body) for a 200 response.
	ContentLength int64

	// ETag is the entity tag to send with either status.
	ETag string

	// LastModified is the Last-Modified value to send with either status.
	LastModified string

	// Vary reports whether the response varies on Accept-Encoding.
	Vary bool
}

// Conditional computes the response for f under the given request headers.
//
// Validator precedence follows RFC 7232: when If-None-Match is present it
// alone decides and If-Modified-Since is ignored; otherwise
// If-Modified-Since is compared against the file's modification time at
// second precision. A fresh client gets 304 with validators only; anyone
// else gets 200 with the payload negotiated against Accept-Encoding.
func Conditional(f *File, h RequestHeaders) Decision {
	d := Decision{
		ETag:         f.ETag(),
		LastModified: f.ModTime.UTC().Format(http.TimeFormat),
		Vary:         len(f.variants) > 0,
	}

	if notModified(f, h) {
		d.Status = http.StatusNotModified
		return d
	}

	body, encoding := negotiate(f, h.AcceptEncoding)
	d.Status = http.StatusOK
	d.Body = body
	d.Encoding = encoding
	d.ContentType = f.MIME
	d.ContentLength = int64(len(body))
	return d
}

func notModified(f *File, h RequestHeaders) bool {
	if h.IfNoneMatch != "" {
		return etagMatch(h.IfNoneMatch, f.Hash)
	}
	if h.IfModifiedSince != "" {
		t, err := http.ParseTime(h.IfModifiedSince)
		if err != nil {
			return false
		}
		// ModTime is already truncated to seconds, matching the header's
		// granularity.
		return !f.ModTime.After(t)
	}
	return false
}

// etagMatch reports whether an If-None-Match header matches the content
// hash. Comparison is weak: a W/ prefix on any listed tag is ignored, and
// "*" matches every representation.
func etagMatch(header, hash string) bool {
	if strings.TrimSpace(header) == "*" {
		return true
	}
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(part)
		tag = strings.TrimPrefix(tag, "W/")
		tag = strings.Trim(tag, `"`)
		if tag == hash {
			return true
		}
	}
	return false
}
