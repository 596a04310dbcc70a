package services

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/fantasyfrc/draft-system/clients"
	"github.com/fantasyfrc/draft-system/models"
	"github.com/fantasyfrc/draft-system/repositories"
)

// syncWorkers bounds concurrent catalog upserts so a full sync does not
// hog the connection pool.
const syncWorkers = 8

type TeamService interface {
	List(ctx context.Context, filter repositories.ListTeamsFilter) ([]models.Team, error)
	GetByKey(ctx context.Context, key string) (*models.Team, error)
	// SyncCatalog pulls the full team list from the FRC stats API and
	// upserts it into the local catalog. Draft operations only ever read
	// the local copy.
	SyncCatalog(ctx context.Context) (int, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	frc      *clients.FRCClient
	logger   *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, frc *clients.FRCClient, logger *slog.Logger) TeamService {
	return &teamService{teamRepo: teamRepo, frc: frc, logger: logger}
}

func (s *teamService) List(ctx context.Context, filter repositories.ListTeamsFilter) ([]models.Team, error) {
	return s.teamRepo.List(ctx, filter)
}

func (s *teamService) GetByKey(ctx context.Context, key string) (*models.Team, error) {
	team, err := s.teamRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) SyncCatalog(ctx context.Context) (int, error) {
	total := 0
	for page := 0; ; page++ {
		teams, err := s.frc.ListTeams(ctx, page)
		if err != nil {
			return total, err
		}
		if len(teams) == 0 {
			break
		}

		if err := s.upsertPage(ctx, teams); err != nil {
			return total, err
		}
		total += len(teams)
	}

	s.logger.Info("team catalog synced", "teams", total)
	return total, nil
}

func (s *teamService) upsertPage(ctx context.Context, teams []clients.FRCTeam) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(syncWorkers)

	for _, ft := range teams {
		ft := ft
		g.Go(func() error {
			team := &models.Team{
				Key:    ft.Key,
				Number: ft.TeamNumber,
				Name:   ft.Nickname,
			}
			if ft.City != "" {
				team.City = &ft.City
			}
			if ft.Country != "" {
				team.Country = &ft.Country
			}
			return s.teamRepo.Upsert(ctx, team)
		})
	}
	return g.Wait()
}
