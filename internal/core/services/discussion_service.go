package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type discussionService struct {
	electionRepo ports.ElectionRepository
	commentRepo  ports.CommentRepository
}

func NewDiscussionService(electionRepo ports.ElectionRepository, commentRepo ports.CommentRepository) ports.DiscussionService {
	return &discussionService{
		electionRepo: electionRepo,
		commentRepo:  commentRepo,
	}
}

func (s *discussionService) Post(ctx context.Context, input ports.PostCommentInput) (*domain.Comment, error) {
	if input.AuthorID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	body := strings.TrimSpace(input.Body)
	if body == "" || len(body) > 2000 {
		verr := domain.NewValidationError()
		verr.Fields["body"] = "comment body must be between 1 and 2000 characters"
		return nil, verr
	}

	if _, err := s.electionRepo.GetByID(ctx, input.ElectionID); err != nil {
		return nil, err
	}

	parentID := input.ParentID
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.ElectionID != input.ElectionID {
			return nil, domain.ErrCommentNotFound
		}
		// One level of threading: a reply to a reply attaches to the
		// thread root.
		if parent.ParentID != nil {
			parentID = parent.ParentID
		}
	}

	comment := &domain.Comment{
		ID:         uuid.New(),
		ElectionID: input.ElectionID,
		AuthorID:   input.AuthorID,
		ParentID:   parentID,
		Body:       body,
		CreatedAt:  time.Now(),
	}

	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// Threads returns root comments in chronological order with their
// replies nested.
func (s *discussionService) Threads(ctx context.Context, electionID uuid.UUID) ([]*domain.Comment, error) {
	comments, err := s.commentRepo.ListByElection(ctx, electionID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*domain.Comment, len(comments))
	roots := []*domain.Comment{}
	for _, c := range comments {
		byID[c.ID] = c
	}
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		} else {
			roots = append(roots, c)
		}
	}

	return roots, nil
}
