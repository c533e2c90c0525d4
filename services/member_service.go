package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/padelhq/club-manager/models"
	"github.com/padelhq/club-manager/repositories"
)

// candidateLimit caps FindCandidates results.
const candidateLimit = 3

// MemberService is the member directory: phone lookup and matchmaking
// candidate search. Read-only; members are managed outside this service.
type MemberService interface {
	FindByPhone(ctx context.Context, phone string) (*models.Member, error)
	FindCandidates(ctx context.Context, skillLevel string, excludeMemberID int) ([]*models.Member, error)
}

type memberService struct {
	memberRepo repositories.MemberRepository
}

func NewMemberService(memberRepo repositories.MemberRepository) MemberService {
	return &memberService{memberRepo: memberRepo}
}

func (s *memberService) FindByPhone(ctx context.Context, phone string) (*models.Member, error) {
	member, err := s.memberRepo.FindByPhone(ctx, nil, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member by phone: %w", err)
	}
	return member, nil
}

func (s *memberService) FindCandidates(ctx context.Context, skillLevel string, excludeMemberID int) ([]*models.Member, error) {
	candidates, err := s.memberRepo.FindCandidates(ctx, nil, skillLevel, excludeMemberID, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	return candidates, nil
}
