package coordinate

import (
	"context"
	"errors"
	"time"

	"github.com/wichananm65/vts-portal-api/internal/logger"
	"github.com/wichananm65/vts-portal-api/internal/store"
)

var ErrInvalidRange = errors.New("end must not be before start")

type Service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) List(ctx context.Context) ([]Coordinate, error) {
	return s.repo.List(ctx)
}

// Between returns coordinates created within [start, end], both inclusive.
func (s *Service) Between(ctx context.Context, start, end time.Time) ([]Coordinate, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	return s.repo.Between(ctx, store.Timestamp(start), store.Timestamp(end))
}

func (s *Service) GetByID(ctx context.Context, id string) (Coordinate, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, coord Coordinate) (Coordinate, error) {
	if err := s.repo.Save(ctx, coord); err != nil {
		s.log.Error("Coordinate service: create failed", "id", coord.ID, "error", err)
		return Coordinate{}, err
	}
	s.log.Debug("Coordinate service: coordinate stored", "id", coord.ID, "lat", coord.Lat, "lng", coord.Lng)
	return coord, nil
}

// Replace sets the position of an existing coordinate; ID and CreatedAt are kept.
func (s *Service) Replace(ctx context.Context, id string, lat, lng float64) (Coordinate, error) {
	coord, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Coordinate{}, err
	}
	coord.Lat = lat
	coord.Lng = lng
	if err := s.repo.Save(ctx, coord); err != nil {
		s.log.Error("Coordinate service: replace failed", "id", id, "error", err)
		return Coordinate{}, err
	}
	return coord, nil
}

// Delete succeeds whether or not the coordinate exists.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("Coordinate service: delete failed", "id", id, "error", err)
		return err
	}
	return nil
}
