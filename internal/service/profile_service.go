package service

import (
	"database/sql"
	"errors"
	"fmt"

	"tiffinbox/internal/domain"
)

type ProfileService struct {
	repo ProfileRepository
}

func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// EnsureProfile returns the customer's profile, creating it on first visit
// from the identity the session carries.
func (s *ProfileService) EnsureProfile(session domain.Session) (*domain.Profile, error) {
	profile, err := s.repo.GetProfile(session.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	profile = &domain.Profile{
		ID:       session.UserID,
		Email:    session.Email,
		FullName: session.FullName(),
		Role:     "student",
	}
	if err := s.repo.InsertProfile(profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

var _ ProfileServiceInterface = (*ProfileService)(nil)
