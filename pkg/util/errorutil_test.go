package util_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	err := apperrors.NewConflict("already exists", map[string]any{"field": "email"})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "CONFLICT", de.Code)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	assert.Equal(t, "email", de.Details["field"])
}

func TestToDomainErrorWrapsNoRows(t *testing.T) {
	de := apperrors.ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	require.NotNil(t, de)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	de := apperrors.ToDomainError(errors.New("socket closed"))
	require.NotNil(t, de)
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)

	assert.Nil(t, apperrors.ToDomainError(nil))
}

func TestInvalidTransitionDetails(t *testing.T) {
	err := apperrors.NewInvalidTransition("da_gestire", "chiusa")
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_TRANSITION", de.Code)
	assert.Equal(t, "da_gestire", de.Details["current_state"])
	assert.Equal(t, "chiusa", de.Details["attempted_state"])
}
