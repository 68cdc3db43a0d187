package util_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/spec-kit/stock-service/pkg/util"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	err := apperrors.NewAccountExists()
	mapped := apperrors.ToDomainError(err)

	assert.Equal(t, "ACCOUNT_EXISTS", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := apperrors.ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
}

func TestToDomainErrorGeneric(t *testing.T) {
	mapped := apperrors.ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestRegistrationErrorsStayDistinct(t *testing.T) {
	account := apperrors.ToDomainError(apperrors.NewAccountExists())
	email := apperrors.ToDomainError(apperrors.NewEmailExists())

	assert.NotEqual(t, account.Code, email.Code)
	assert.NotEqual(t, account.Message, email.Message)
}

func TestAccountCreationFailedWraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperrors.NewAccountCreationFailed(cause)

	mapped := apperrors.ToDomainError(err)
	assert.Equal(t, "ACCOUNT_CREATION_FAILED", mapped.Code)
	assert.ErrorIs(t, err, cause)
}
