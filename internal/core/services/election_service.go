package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

const electionsPerPage = 20

type electionService struct {
	repo ports.ElectionRepository
}

func NewElectionService(repo ports.ElectionRepository) ports.ElectionService {
	return &electionService{
		repo: repo,
	}
}

func (s *electionService) Create(ctx context.Context, input ports.CreateElectionInput) (*domain.Election, error) {
	verr := domain.NewValidationError()

	title := strings.TrimSpace(input.Title)
	if len(title) < 3 || len(title) > 200 {
		verr.Fields["title"] = "title must be between 3 and 200 characters"
	}

	options := make([]string, 0, len(input.BallotOptions))
	for _, opt := range input.BallotOptions {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	if len(options) < 2 {
		verr.Fields["ballot_options"] = "at least two ballot options are required"
	}

	startDate, err := parseDate(input.StartDate)
	if err != nil {
		verr.Fields["start_date"] = "invalid start date"
	}
	endDate, err := parseDate(input.EndDate)
	if err != nil {
		verr.Fields["end_date"] = "invalid end date"
	}
	if input.IsOngoing {
		// An ongoing election has no end; a configured end date is
		// dropped rather than stored.
		endDate = nil
	} else if startDate != nil && endDate != nil && !endDate.After(*startDate) {
		verr.Fields["end_date"] = "end date must be after start date"
	}

	switch input.Voting.Model {
	case domain.ModelDirect, domain.ModelLiquid, domain.ModelQuadratic, domain.ModelWeighted:
	default:
		verr.Fields["voting_config.model"] = "unknown voting model"
	}
	switch input.Voting.BallotType {
	case domain.BallotSingle, domain.BallotMultiple, domain.BallotRanked:
	default:
		verr.Fields["voting_config.ballot_type"] = "unknown ballot type"
	}
	switch input.Voting.WinningCriteria {
	case domain.CriteriaPlurality, domain.CriteriaMajority, domain.CriteriaSupermajority:
	case "":
		input.Voting.WinningCriteria = domain.CriteriaPlurality
	default:
		verr.Fields["voting_config.winning_criteria"] = "unknown winning criteria"
	}
	switch input.Identity.RestrictionType {
	case domain.RestrictionOpen, domain.RestrictionWorldID:
	case domain.RestrictionEmailList, domain.RestrictionDomain, domain.RestrictionPhoneList, domain.RestrictionCountry:
		if len(input.Identity.AllowList) == 0 {
			verr.Fields["identity_config.allow_list"] = "allow list cannot be empty for this restriction"
		}
	default:
		verr.Fields["identity_config.restriction_type"] = "unknown restriction type"
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	election := &domain.Election{
		ID:            uuid.New(),
		CreatorID:     input.CreatorID,
		Title:         title,
		Description:   strings.TrimSpace(input.Description),
		Identity:      input.Identity,
		Voting:        input.Voting,
		BallotOptions: options,
		StartDate:     startDate,
		EndDate:       endDate,
		IsOngoing:     input.IsOngoing,
		IsPublic:      input.IsPublic,
		Status:        domain.StatusActive,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.Save(ctx, election); err != nil {
		return nil, err
	}

	return election, nil
}

func (s *electionService) Get(ctx context.Context, id string) (*domain.Election, error) {
	electionID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidElectionID
	}

	return s.repo.GetByID(ctx, electionID)
}

func (s *electionService) ListPublic(ctx context.Context, input ports.ListElectionsInput) ([]*domain.Election, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	return s.repo.ListPublic(ctx, electionsPerPage, (page-1)*electionsPerPage)
}

func (s *electionService) ListMine(ctx context.Context, creatorID uuid.UUID) ([]*domain.Election, error) {
	return s.repo.ListByCreator(ctx, creatorID)
}

func parseDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, errors.New("invalid date")
	}
	return &t, nil
}
