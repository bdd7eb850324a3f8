package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type DelegationHandler struct {
	service ports.DelegationService
}

func NewDelegationHandler(service ports.DelegationService) *DelegationHandler {
	return &DelegationHandler{
		service: service,
	}
}

type delegateRequest struct {
	DelegateID uuid.UUID `json:"delegate_id"`
}

// Delegate godoc
// @Summary      Delegates the caller's vote
// @Description  Creates or switches the caller's single active delegation
// @Tags         delegations
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      401
// @Router       /delegations [post]
func (h *DelegationHandler) Delegate(w http.ResponseWriter, r *http.Request) {
	var req delegateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	delegation, err := h.service.Delegate(r.Context(), userID, req.DelegateID)
	if err != nil {
		if errors.Is(err, domain.ErrSelfDelegation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, domain.ErrUnauthenticated) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(delegation); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Revoke godoc
// @Summary      Revokes the caller's active delegation
// @Description  Idempotent; revoking with no active delegation succeeds
// @Tags         delegations
// @Success      204
// @Failure      401
// @Router       /delegations [delete]
func (h *DelegationHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	if err := h.service.Revoke(r.Context(), userID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Mine godoc
// @Summary      Returns the caller's active delegation
// @Tags         delegations
// @Produce      json
// @Success      200
// @Failure      401
// @Failure      404
// @Router       /delegations/mine [get]
func (h *DelegationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	delegation, err := h.service.Mine(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if delegation == nil {
		http.Error(w, "no active delegation", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(delegation); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Delegators godoc
// @Summary      Lists the caller's valid delegators for an election
// @Description  Only delegators independently eligible for the election are counted
// @Tags         delegations
// @Produce      json
// @Success      200
// @Failure      401
// @Router       /elections/{id}/delegators [get]
func (h *DelegationHandler) Delegators(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid election id", http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	delegators, err := h.service.ValidDelegators(r.Context(), userID, electionID)
	if err != nil {
		if errors.Is(err, domain.ErrElectionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(delegators); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
