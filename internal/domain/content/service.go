package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/pkg/pagination"
)

var ErrInvalidCategory = errors.New("invalid category")

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns one page of the wellness feed, optionally filtered to one
// category.
func (s *Service) List(ctx context.Context, category string, p pagination.Params) (*pagination.Response, error) {
	if category != "" && !ValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	items, err := s.repo.List(ctx, category, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	total, err := s.repo.Count(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("count content: %w", err)
	}
	return pagination.NewResponse(items, total, p.Limit, p.Offset), nil
}

type CreateInput struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Item, error) {
	if !ValidCategory(in.Category) {
		return nil, ErrInvalidCategory
	}
	if in.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	it := &Item{
		Category:    in.Category,
		Title:       in.Title,
		Description: in.Description,
		Duration:    in.Duration,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}

	s.log.Info().Str("content_id", it.ID.String()).Str("category", in.Category).Msg("content published")
	return it, nil
}
