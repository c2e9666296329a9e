package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/domain/dto"
	"github.com/guttosm/placement-service/internal/i18n"
	"github.com/guttosm/placement-service/internal/placement"
)

// validatable is satisfied by request DTOs with a pointer Validate method.
type validatable[T any] interface {
	*T
	Validate() error
}

// bindJSON decodes and validates a JSON body. On failure it has already
// answered the request and returns nil.
func bindJSON[T any, PT validatable[T]](c *gin.Context, builder *ResponseBuilder) *T {
	return bindWith[T, PT](builder, c.ShouldBindJSON, i18n.ErrKeyInvalidRequestBody)
}

// bindForm decodes and validates multipart or urlencoded form fields.
func bindForm[T any, PT validatable[T]](c *gin.Context, builder *ResponseBuilder) *T {
	return bindWith[T, PT](builder, c.ShouldBind, i18n.ErrKeyInvalidRequest)
}

// bindQuery decodes and validates query parameters.
func bindQuery[T any, PT validatable[T]](c *gin.Context, builder *ResponseBuilder) *T {
	return bindWith[T, PT](builder, c.ShouldBindQuery, i18n.ErrKeyInvalidRequest)
}

func bindWith[T any, PT validatable[T]](builder *ResponseBuilder, decode func(any) error, decodeKey string) *T {
	var v T
	if err := decode(&v); err != nil {
		if isBodyTooLarge(err) {
			builder.Error(http.StatusRequestEntityTooLarge, i18n.ErrKeyPayloadTooLarge, err)
			return nil
		}
		builder.Error(http.StatusBadRequest, decodeKey, err)
		return nil
	}
	if err := PT(&v).Validate(); err != nil {
		validationFailed(builder, err)
		return nil
	}
	return &v
}

// validationFailed answers a request whose body, form or query did not
// validate. A dto.ValidationError names the offending field in the details.
func validationFailed(builder *ResponseBuilder, err error) {
	key := i18n.ErrKeyInvalidRequest
	if errors.Is(err, placement.ErrInvalidDimension) {
		key = i18n.ErrKeyValidationDimension
	}

	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		builder.ErrorWithDetails(http.StatusBadRequest, key, err, map[string]string{verr.Field: verr.Message})
		return
	}
	builder.Error(http.StatusBadRequest, key, err)
}
