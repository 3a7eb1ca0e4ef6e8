package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/repositories"
)

// ErrMatchesListFailed - общая ошибка для листинга матчей
var ErrMatchesListFailed = errors.New("failed to list matches")

type MatchService interface {
	GetMatch(ctx context.Context, matchID int) (*models.LeagueMatch, error)
	ListByCompetition(ctx context.Context, competitionID string, status *models.MatchStatus) ([]*models.LeagueMatch, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
}

func NewMatchService(matchRepo repositories.MatchRepository) MatchService {
	return &matchService{matchRepo: matchRepo}
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.LeagueMatch, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	return match, nil
}

func (s *matchService) ListByCompetition(ctx context.Context, competitionID string, status *models.MatchStatus) ([]*models.LeagueMatch, error) {
	matches, err := s.matchRepo.ListByCompetition(ctx, competitionID, status)
	if err != nil {
		return nil, fmt.Errorf("%w: competition %s: %w", ErrMatchesListFailed, competitionID, err)
	}
	if matches == nil {
		return []*models.LeagueMatch{}, nil
	}
	return matches, nil
}
