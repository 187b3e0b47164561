package asset

import (
	"net/http"
	"strconv"
)

// immutableCacheControl is sent for hashed-alias requests: the content
// hash is in the URL, so the response can never go stale.
const immutableCacheControl = "public, max-age=31536000, immutable"

type handler struct {
	table        *Table
	cacheControl string
	notFound     http.Handler
}

// HandlerOption configures Handler.
type HandlerOption func(*handler)

// WithCacheControl sets the Cache-Control value for logical-path
// responses. The default is "no-cache", which forces revalidation and
// lets the ETag do its job. Hashed-alias responses always get an
// immutable far-future value.
func WithCacheControl(value string) HandlerOption {
	return func(h *handler) {
		h.cacheControl = value
	}
}

// WithNotFound sets the handler invoked when no asset matches. The
// default writes a plain 404.
func WithNotFound(next http.Handler) HandlerOption {
	return func(h *handler) {
		h.notFound = next
	}
}

// Handler returns an http.Handler serving the table.
//
// GET and HEAD are supported; other methods receive 405 with an Allow
// header. Responses carry ETag, Last-Modified, Content-Type and
// Content-Length, honor If-None-Match and If-Modified-Since, and serve a
// precompressed variant when the client accepts one.
func Handler(t *Table, opts ...HandlerOption) http.Handler {
	h := &handler{
		table:        t,
		cacheControl: "no-cache",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	f, ok := h.table.Lookup(r.URL.Path)
	if !ok {
		if h.notFound != nil {
			h.notFound.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}

	d := Conditional(f, RequestHeaders{
		IfNoneMatch:     r.Header.Get("If-None-Match"),
		IfModifiedSince: r.Header.Get("If-Modified-Since"),
		AcceptEncoding:  r.Header.Get("Accept-Encoding"),
	})

	hdr := w.Header()
	hdr.Set("ETag", d.ETag)
	hdr.Set("Last-Modified", d.LastModified)
	if d.Vary {
		hdr.Add("Vary", "Accept-Encoding")
	}
	if h.servedByHashedAlias(r.URL.Path, f) {
		hdr.Set("Cache-Control", immutableCacheControl)
	} else {
		hdr.Set("Cache-Control", h.cacheControl)
	}

	if d.Status == http.StatusNotModified {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	hdr.Set("Content-Type", d.ContentType)
	hdr.Set("Content-Length", strconv.FormatInt(d.ContentLength, 10))
	if d.Encoding != "" {
		hdr.Set("Content-Encoding", d.Encoding)
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(d.Body)
}

func (h *handler) servedByHashedAlias(requestPath string, f *File) bool {
	norm, ok := normalizeRequestPath(requestPath)
	return ok && norm == f.HashedPath
}
