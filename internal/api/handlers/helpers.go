package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
)

// decodeJSON decodes a request body into v
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.BadRequest("invalid JSON body")
	}
	return nil
}
