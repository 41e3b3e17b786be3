package utils

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/javieryacu/sinapsia-polirrubro/internal/errors"
	"github.com/javieryacu/sinapsia-polirrubro/internal/utils/response"
)

// ParseAndValidate decodes the JSON body into dest and validates it,
// writing the error response itself. Returns false when the request is bad.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		response.Error(w, errors.BadRequestError(err.Error()))

		return false
	}

	if err := validate.Struct(dest); err != nil {

		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			response.ValidationError(w, validationErrs)
		} else {
			response.Error(w, errors.InternalError("Unexpected validation error").WithError(err))
		}

		return false
	}

	return true
}

func ParseID(r *http.Request, param string) (uuid.UUID, error) {

	idStr := r.PathValue(param)

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, errors.BadRequestError("Invalid id: must be a UUID")
	}

	return id, nil
}

// ParsePagination reads page/pageSize query params, falling back to the
// defaults on anything unparsable. Bounds are enforced by the services.
func ParsePagination(r *http.Request) (page, size int) {

	page = 1
	size = 20

	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	if s, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil && s > 0 {
		size = s
	}

	return page, size
}
