package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

// u64Ptr converts an optional request amount into the storage type.
func u64Ptr(a *types.Amount) *types.U64 {
	if a == nil {
		return nil
	}
	v := a.U64()
	return &v
}

// rowIDParam parses the numeric {id} route parameter.
func rowIDParam(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid id parameter")
	}
	return uint(id), nil
}
