package responses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"})

	require.Equal(t, 200, rec.Code)
	var envelope types.SuccessEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Timestamp)
	assert.Nil(t, envelope.Pagination)
}

func TestWriteListIncludesPagination(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteList(rec, []int{1, 2, 3}, types.PaginationMeta{Total: 3, Page: 1, Limit: 10, Pages: 1})

	var envelope types.SuccessEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 3, envelope.Pagination.Total)
}

func TestWriteErrorMapsDomainCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{pkgerrors.New(pkgerrors.CodeNotFound, "buy offer not found"), 404, "NOT_FOUND"},
		{pkgerrors.New(pkgerrors.CodeConflict, "buy offer with this ID already exists"), 409, "UNIQUE_CONSTRAINT_VIOLATION"},
		{pkgerrors.New(pkgerrors.CodeValidation, "validation failed"), 400, "VALIDATION_ERROR"},
		{fmt.Errorf("raw storage error"), 500, "INTERNAL_SERVER_ERROR"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), nil, rec, tc.err)

		require.Equal(t, tc.status, rec.Code)
		var envelope types.ErrorEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, tc.code, envelope.Code)
		assert.Equal(t, tc.status, envelope.StatusCode)
	}
}

func TestWriteErrorHidesInternalMessageInProd(t *testing.T) {
	EchoInternalMessages = false
	defer func() { EchoInternalMessages = true }()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeInternal, "password was hunter2"))

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "internal server error", envelope.Error)
}

func TestWriteErrorIncludesValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"price": "must be at least 0", "product": "is required"})
	WriteError(context.Background(), nil, rec, err)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	details, ok := envelope.Details.(map[string]any)
	require.True(t, ok)
	assert.Len(t, details, 2)
}
