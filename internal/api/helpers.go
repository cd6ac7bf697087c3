package api

import (
	"encoding/json/v2"
	"io"
	"net/http"
	"strconv"

	domainerrors "github.com/foundershelf/foundershelf-server/internal/errors"
	"github.com/foundershelf/foundershelf-server/internal/store"
)

// maxBodySize caps request bodies. History imports are the largest payload
// and a few thousand rows fit comfortably.
const maxBodySize = 4 << 20

// decodeBody decodes a JSON request body into dst and validates it.
func (s *Server) decodeBody(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodySize)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	if err := json.UnmarshalRead(body, dst); err != nil {
		return domainerrors.Validation("malformed JSON request body")
	}
	return s.validator.Validate(dst)
}

// parsePaginationParams parses pagination parameters from the query string.
func parsePaginationParams(r *http.Request) store.PaginationParams {
	params := store.DefaultPaginationParams()

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			params.Limit = limit
		}
	}

	if cursor := r.URL.Query().Get("cursor"); cursor != "" {
		params.Cursor = cursor
	}

	params.Validate()

	return params
}

// queryInt parses an integer query parameter, returning fallback when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// queryBool parses a boolean query parameter. Only "true" and "1" are true.
func queryBool(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "true" || v == "1"
}
