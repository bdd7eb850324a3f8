package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type eligibilityService struct {
	electionRepo ports.ElectionRepository
	userRepo     ports.UserRepository
}

func NewEligibilityService(electionRepo ports.ElectionRepository, userRepo ports.UserRepository) ports.EligibilityService {
	return &eligibilityService{
		electionRepo: electionRepo,
		userRepo:     userRepo,
	}
}

// CanVote applies the election's identity restriction to the user.
// A missing or unknown restriction config fails closed.
func (s *eligibilityService) CanVote(ctx context.Context, electionID, userID uuid.UUID) (domain.Eligibility, error) {
	election, err := s.electionRepo.GetByID(ctx, electionID)
	if err != nil {
		return domain.Eligibility{}, err
	}

	if !election.AcceptingVotes(time.Now()) {
		return ineligible("election is closed"), nil
	}

	if userID == uuid.Nil {
		return ineligible("authentication required"), nil
	}

	if election.Identity.RestrictionType == domain.RestrictionOpen {
		return domain.Eligibility{Eligible: true}, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID.String())
	if err != nil {
		return domain.Eligibility{}, err
	}
	if user == nil {
		return ineligible("authentication required"), nil
	}

	switch election.Identity.RestrictionType {
	case domain.RestrictionEmailList:
		if matchesEmail(user.Email, election.Identity.AllowList) {
			return domain.Eligibility{Eligible: true}, nil
		}
		return ineligible("email is not on the allowed list"), nil
	case domain.RestrictionDomain:
		if matchesDomain(user.Email, election.Identity.AllowList) {
			return domain.Eligibility{Eligible: true}, nil
		}
		return ineligible("email domain is not allowed"), nil
	case domain.RestrictionPhoneList:
		if user.Phone != "" && matchesExact(user.Phone, election.Identity.AllowList) {
			return domain.Eligibility{Eligible: true}, nil
		}
		return ineligible("phone number is not on the allowed list"), nil
	case domain.RestrictionCountry:
		if user.PhoneCountryCode != "" && matchesCountry(user.PhoneCountryCode, election.Identity.AllowList) {
			return domain.Eligibility{Eligible: true}, nil
		}
		return ineligible("phone country is not allowed"), nil
	case domain.RestrictionWorldID:
		if user.WorldIDVerified {
			return domain.Eligibility{Eligible: true}, nil
		}
		return ineligible("world id verification required"), nil
	}

	return ineligible("unsupported restriction configuration"), nil
}

func ineligible(reason string) domain.Eligibility {
	return domain.Eligibility{Eligible: false, Reason: reason}
}

func matchesEmail(email string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), email) {
			return true
		}
	}
	return false
}

func matchesDomain(email string, allowed []string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	emailDomain := strings.ToLower(email[at+1:])
	for _, a := range allowed {
		if normalizeDomain(a) == emailDomain {
			return true
		}
	}
	return false
}

// normalizeDomain tolerates configured entries like "https://www.acme.org"
// or "www.acme.org" next to a plain "acme.org".
func normalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	if i := strings.Index(d, "://"); i >= 0 {
		d = d[i+3:]
	}
	d = strings.TrimPrefix(d, "www.")
	return strings.TrimSuffix(d, "/")
}

func matchesExact(value string, allowed []string) bool {
	for _, a := range allowed {
		if strings.TrimSpace(a) == value {
			return true
		}
	}
	return false
}

func matchesCountry(code string, allowed []string) bool {
	code = strings.TrimPrefix(code, "+")
	for _, a := range allowed {
		if strings.TrimPrefix(strings.TrimSpace(a), "+") == code {
			return true
		}
	}
	return false
}
