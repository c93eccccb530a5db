package httpErrors

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrBadRequest        = errors.New("bad request")
	ErrNoTransition      = errors.New("status transition not allowed")
	ErrUnknownResolution = errors.New("unknown resolution")
	ErrQueueUnavailable  = errors.New("job queue unavailable")
	ErrInternalServer    = errors.New("internal server error")
)

type RestErr interface {
	Status() int
	Error() string
	Causes() interface{}
}

type RestError struct {
	ErrStatus int         `json:"status"`
	ErrError  string      `json:"error"`
	ErrCauses interface{} `json:"causes,omitempty"`
}

func (e RestError) Error() string {
	return fmt.Sprintf("status: %d - errors: %s - causes: %v", e.ErrStatus, e.ErrError, e.ErrCauses)
}

func (e RestError) Status() int {
	return e.ErrStatus
}

func (e RestError) Causes() interface{} {
	return e.ErrCauses
}

func NewRestError(status int, err string, causes interface{}) RestErr {
	return RestError{ErrStatus: status, ErrError: err, ErrCauses: causes}
}

func NewBadRequestError(causes interface{}) RestErr {
	return RestError{ErrStatus: http.StatusBadRequest, ErrError: ErrBadRequest.Error(), ErrCauses: causes}
}

func NewNotFoundError(causes interface{}) RestErr {
	return RestError{ErrStatus: http.StatusNotFound, ErrError: ErrNotFound.Error(), ErrCauses: causes}
}

func NewInternalServerError(causes interface{}) RestErr {
	return RestError{ErrStatus: http.StatusInternalServerError, ErrError: ErrInternalServer.Error(), ErrCauses: causes}
}

// ParseErrors maps domain and storage errors onto a RestErr.
func ParseErrors(err error) RestErr {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, ErrNotFound):
		return NewNotFoundError(err.Error())
	case errors.As(err, &validationErrs):
		return NewBadRequestError(validationErrs.Error())
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrUnknownResolution):
		return NewBadRequestError(err.Error())
	case errors.Is(err, ErrNoTransition):
		return NewRestError(http.StatusConflict, ErrNoTransition.Error(), err.Error())
	case errors.Is(err, ErrQueueUnavailable):
		return NewRestError(http.StatusServiceUnavailable, ErrQueueUnavailable.Error(), err.Error())
	}
	if restErr, ok := err.(RestErr); ok {
		return restErr
	}
	return NewInternalServerError(err.Error())
}

func ErrorResponse(err error) (int, interface{}) {
	restErr := ParseErrors(err)
	return restErr.Status(), restErr
}
