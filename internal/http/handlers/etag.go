package handlers

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RespondCachedOK writes a 200 envelope around data with a weak ETag computed
// from data alone. A matching If-None-Match yields 304 with no body.
func RespondCachedOK(ctx *gin.Context, data any) {
	etag, err := weakETag(data)
	if err != nil {
		RespondOK(ctx, http.StatusOK, data)
		return
	}

	ctx.Header("ETag", etag)
	ctx.Header("Cache-Control", "private, no-cache")

	if etagMatches(ctx.GetHeader("If-None-Match"), etag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	RespondOK(ctx, http.StatusOK, data)
}

func weakETag(data any) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return `W/"` + base64.RawURLEncoding.EncodeToString(sum[:16]) + `"`, nil
}

// etagMatches applies the weak comparison used for If-None-Match.
func etagMatches(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}

	want := opaqueTag(etag)
	for _, candidate := range strings.Split(header, ",") {
		if opaqueTag(candidate) == want {
			return true
		}
	}
	return false
}

func opaqueTag(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimPrefix(v, "W/")
}
