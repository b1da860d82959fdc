package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, CodeBadRequest, "bad", ErrBadRequest)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, CodeBadRequest, err.Code)
	assert.Equal(t, "bad", err.Message)
	assert.Equal(t, ErrBadRequest.Error(), err.Error())

	notFound := NotFound("missing")
	assert.Equal(t, http.StatusNotFound, notFound.Status)
	assert.Equal(t, CodeNotFound, notFound.Code)
	assert.ErrorIs(t, notFound, ErrNotFound)

	conflict := Conflict("exists")
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.Equal(t, CodeConflict, conflict.Code)
	assert.ErrorIs(t, conflict, ErrAlreadyExists)

	internal := InternalError(stderrors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Equal(t, CodeInternalError, internal.Code)
	assert.NotContains(t, internal.Message, "db down")
	assert.Equal(t, "db down", internal.Error())

	badReq := BadRequest("bad request")
	assert.Equal(t, http.StatusBadRequest, badReq.Status)
	assert.Equal(t, CodeInvalidInput, badReq.Code)

	unauth := Unauthorized("unauthorized")
	assert.Equal(t, http.StatusUnauthorized, unauth.Status)

	forbidden := Forbidden("forbidden")
	assert.Equal(t, http.StatusForbidden, forbidden.Status)

	paid := PaymentRequired("pay first")
	assert.Equal(t, http.StatusPaymentRequired, paid.Status)
	assert.Equal(t, CodePaymentRequired, paid.Code)
}

func TestValidationFailed_JoinsMessages(t *testing.T) {
	err := ValidationFailed([]string{"fullName is required", "email is required"})
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, CodeValidationFailed, err.Code)
	assert.Equal(t, "fullName is required, email is required", err.Message)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAppError_MessageWhenNoCause(t *testing.T) {
	err := &AppError{Status: http.StatusTeapot, Message: "short and stout"}
	assert.Equal(t, "short and stout", err.Error())
	assert.Nil(t, err.Unwrap())
}
