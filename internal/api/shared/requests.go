package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Single package-level instance; validator.Validate caches parsed struct tag
// metadata across calls.
var validate = validator.New()

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest checks v against its validate struct tags. Types that carry
// their own Validate method are checked with that instead.
func ValidateRequest(v interface{}) error {
	if dv, ok := v.(interface{ Validate() error }); ok {
		return dv.Validate()
	}
	return validate.Struct(v)
}
