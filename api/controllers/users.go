package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/priceless-app/priceless-backend/api/responses"
	"github.com/priceless-app/priceless-backend/api/validators"
	"github.com/priceless-app/priceless-backend/internal/users"
	pkgerrors "github.com/priceless-app/priceless-backend/pkg/errors"
	"github.com/priceless-app/priceless-backend/pkg/logger"
	"github.com/priceless-app/priceless-backend/pkg/types"
)

type createUserRequest struct {
	UserID               string       `json:"user_id" validate:"required"`
	UserAddress          string       `json:"user_address" validate:"required"`
	UserOwnerAddress     string       `json:"user_owner_address" validate:"required,len=66"`
	SubscriptionFee      types.Amount `json:"subscription_fee" validate:"min=0"`
	SubscriptionDeadline types.Amount `json:"subscription_deadline" validate:"min=0"`
	RegisteredAt         types.Amount `json:"registered_at" validate:"min=0"`
	Active               bool         `json:"active"`
}

func (r createUserRequest) toInput() users.CreateUserInput {
	return users.CreateUserInput{
		UserID:               r.UserID,
		UserAddress:          r.UserAddress,
		UserOwnerAddress:     r.UserOwnerAddress,
		SubscriptionFee:      r.SubscriptionFee.U64(),
		SubscriptionDeadline: r.SubscriptionDeadline.U64(),
		RegisteredAt:         r.RegisteredAt.U64(),
		Active:               r.Active,
	}
}

type updateUserRequest struct {
	UserAddress          *string       `json:"user_address,omitempty" validate:"omitempty,min=1"`
	SubscriptionFee      *types.Amount `json:"subscription_fee,omitempty" validate:"omitempty,min=0"`
	SubscriptionDeadline *types.Amount `json:"subscription_deadline,omitempty" validate:"omitempty,min=0"`
	Active               *bool         `json:"active,omitempty"`
}

func (r updateUserRequest) toInput() users.UpdateUserInput {
	return users.UpdateUserInput{
		UserAddress:          r.UserAddress,
		SubscriptionFee:      u64Ptr(r.SubscriptionFee),
		SubscriptionDeadline: u64Ptr(r.SubscriptionDeadline),
		Active:               r.Active,
	}
}

// UserByWallet resolves a mirrored user from the wallet owner address.
func UserByWallet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := r.URL.Query().Get("address")
		if address == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "address query parameter required"))
			return
		}

		user, err := svc.GetUserByAddress(r.Context(), address)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// UserCreate mirrors a newly registered user.
func UserCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.CreateUser(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// UserList returns one page of mirrored users, newest registration first.
func UserList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.ListUsers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, rows, meta)
	}
}

// UserGet fetches a user by row id.
func UserGet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetUser(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// UserGetByBlockchainID fetches a user by the on-chain object id.
func UserGetByBlockchainID(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		user, err := svc.GetUserByUserID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// UserUpdate applies a partial patch to a mirrored user.
func UserUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.UpdateUser(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// UserDelete removes a mirrored user, echoing the deleted row.
func UserDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := rowIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.DeleteUser(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
