package httpx

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeValid decodes the JSON request body into v and shape-validates it
// against its struct tags. v must be a pointer.
func DecodeValid(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return err
	}
	return validate.Struct(v)
}
