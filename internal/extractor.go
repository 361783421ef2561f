package internal

import (
	"strings"

	"github.com/dmitrymomot/openframe/pkg/httpmsg"
)

// ExtractorSource reads one value from a parsed request.
type ExtractorSource func(req *httpmsg.Request) (string, bool)

// Extractor tries sources in order and returns the first non-empty value.
type Extractor struct {
	sources []ExtractorSource
}

func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

func (e Extractor) Extract(req *httpmsg.Request) (string, bool) {
	if req == nil {
		return "", false
	}
	for _, src := range e.sources {
		if v, ok := src(req); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// FromCookie reads a cookie value.
func FromCookie(name string) ExtractorSource {
	return func(req *httpmsg.Request) (string, bool) {
		return req.Cookie(name)
	}
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return func(req *httpmsg.Request) (string, bool) {
		v := req.Header.Get(name)
		return v, v != ""
	}
}

// FromQuery reads a URL query parameter.
func FromQuery(name string) ExtractorSource {
	return func(req *httpmsg.Request) (string, bool) {
		return req.QueryParam(name)
	}
}

// FromForm reads a POST form parameter.
func FromForm(name string) ExtractorSource {
	return func(req *httpmsg.Request) (string, bool) {
		return req.PostParam(name)
	}
}

// FromBearerToken reads the token of an "Authorization: Bearer" header.
func FromBearerToken() ExtractorSource {
	return func(req *httpmsg.Request) (string, bool) {
		auth := req.Header.Get("Authorization")
		if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
			return "", false
		}
		token := strings.TrimSpace(auth[7:])
		return token, token != ""
	}
}
