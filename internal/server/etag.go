package server

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/ipfs/go-cid"
	"github.com/labstack/echo/v4"
	"github.com/multiformats/go-multihash"
)

const (
	headerETag        = "ETag"
	headerIfNoneMatch = "If-None-Match"
)

// contentCID computes a CIDv1 (raw codec, SHA-256) over a response body.
// Identical content always yields the same identifier.
func contentCID(body []byte) (cid.Cid, error) {
	return cid.NewPrefixV1(cid.Raw, multihash.SHA2_256).Sum(body)
}

// respondCached serves v as JSON with a content-addressed ETag and
// answers 304 when the client already holds the same representation.
func respondCached(c echo.Context, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return internalError(c, "Failed to encode response", err)
	}

	id, err := contentCID(body)
	if err != nil {
		return internalError(c, "Failed to encode response", err)
	}
	etag := `"` + id.String() + `"`

	c.Response().Header().Set(headerETag, etag)
	if matchesETag(c.Request().Header.Get(headerIfNoneMatch), etag) {
		return c.NoContent(http.StatusNotModified)
	}
	return c.JSONBlob(http.StatusOK, body)
}

func matchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}
