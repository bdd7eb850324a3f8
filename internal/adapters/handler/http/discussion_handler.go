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

type DiscussionHandler struct {
	service ports.DiscussionService
}

func NewDiscussionHandler(service ports.DiscussionService) *DiscussionHandler {
	return &DiscussionHandler{
		service: service,
	}
}

type postCommentRequest struct {
	Body     string     `json:"body"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// PostComment godoc
// @Summary      Posts a comment on an election
// @Description  Replies to replies are attached to the thread root, keeping threads one level deep
// @Tags         discussions
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      401
// @Failure      404
// @Router       /elections/{id}/comments [post]
func (h *DiscussionHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid election id", http.StatusBadRequest)
		return
	}

	var req postCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	comment, err := h.service.Post(r.Context(), ports.PostCommentInput{
		ElectionID: electionID,
		AuthorID:   userID,
		ParentID:   req.ParentID,
		Body:       req.Body,
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": "validation failed", "fields": verr.Fields})
			return
		}
		if errors.Is(err, domain.ErrElectionNotFound) || errors.Is(err, domain.ErrCommentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(comment); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// ListComments godoc
// @Summary      Lists an election's comment threads
// @Tags         discussions
// @Produce      json
// @Success      200
// @Failure      404
// @Router       /elections/{id}/comments [get]
func (h *DiscussionHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	electionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid election id", http.StatusBadRequest)
		return
	}

	threads, err := h.service.Threads(r.Context(), electionID)
	if err != nil {
		if errors.Is(err, domain.ErrElectionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if threads == nil {
		threads = []*domain.Comment{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(threads); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
