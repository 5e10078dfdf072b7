package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/gitswitch/internal/api/request"
	"github.com/edvin/gitswitch/internal/api/response"
	"github.com/edvin/gitswitch/internal/events"
	"github.com/edvin/gitswitch/internal/model"
	"github.com/edvin/gitswitch/internal/registry"
)

// Account handles the account command endpoints.
type Account struct {
	reg *registry.Registry
	hub *events.Hub
}

// NewAccount creates a new Account handler.
func NewAccount(reg *registry.Registry, hub *events.Hub) *Account {
	return &Account{reg: reg, hub: hub}
}

// List returns every account in insertion order.
func (h *Account) List(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.reg.List())
}

// Current returns the active account, or JSON null when none is active.
func (h *Account) Current(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.reg.Current())
}

// Create registers a new account and generates its SSH keypair.
func (h *Account) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAccount
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.reg.Add(req.Name, req.Email)
	if err != nil {
		if errors.Is(err, registry.ErrDuplicateEmail) {
			response.WriteError(w, http.StatusConflict, err.Error())
			return
		}
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusCreated, account)
}

// Delete removes one account and publishes account-removed.
func (h *Account) Delete(w http.ResponseWriter, r *http.Request) {
	email, err := request.RequireEmail(chi.URLParam(r, "email"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.reg.Remove(email); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			response.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.hub.Publish(model.Event{Name: model.EventAccountRemoved, Payload: email})
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAll removes every account and publishes all-accounts-removed.
func (h *Account) DeleteAll(w http.ResponseWriter, r *http.Request) {
	h.reg.RemoveAll()
	h.hub.Publish(model.Event{Name: model.EventAllAccountsRemoved})
	w.WriteHeader(http.StatusNoContent)
}

// Activate switches the active identity to the given account.
func (h *Account) Activate(w http.ResponseWriter, r *http.Request) {
	email, err := request.RequireEmail(chi.URLParam(r, "email"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.reg.Activate(email); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			response.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SSHKey returns the account's public key.
func (h *Account) SSHKey(w http.ResponseWriter, r *http.Request) {
	email, err := request.RequireEmail(chi.URLParam(r, "email"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	key, err := h.reg.SSHKey(email)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			response.WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"public_key": key})
}
