package service

import (
	"context"
	"strings"

	"zippyhand/internal/domain"
	"zippyhand/internal/metrics"
	"zippyhand/internal/models"

	"github.com/rs/zerolog"
)

// ServiceInput carries caller-supplied catalog fields.
type ServiceInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Icon        string `json:"icon"`
	Popular     bool   `json:"popular"`
}

// CatalogService manages the service catalog. Reads are public; writes go
// through the session-gated admin surface only.
type CatalogService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewCatalogService(store domain.Store, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

// ListServices returns the catalog ordered by ID ascending.
func (s *CatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	return s.store.ListServices(ctx)
}

// CreateService inserts a new offering. Titles are not deduplicated.
func (s *CatalogService) CreateService(ctx context.Context, input ServiceInput) (*models.Service, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, invalid("title", "title is required")
	}

	service := &models.Service{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Price:       input.Price,
		Icon:        input.Icon,
		Popular:     input.Popular,
	}
	if err := s.store.CreateService(ctx, service); err != nil {
		return nil, err
	}

	metrics.IncAdminAction("create_service")
	s.logger.Info().Int64("service_id", service.ID).Str("title", service.Title).Msg("service created")
	return service, nil
}

// UpdateService overwrites the mutable fields of an existing offering.
func (s *CatalogService) UpdateService(ctx context.Context, id int64, input ServiceInput) (*models.Service, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, invalid("title", "title is required")
	}

	service, err := s.store.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	service.Title = strings.TrimSpace(input.Title)
	service.Description = input.Description
	service.Price = input.Price
	service.Popular = input.Popular
	// Icon is overwritten like the other fields; the store falls back to
	// the default icon when it comes in empty.
	service.Icon = input.Icon

	if err := s.store.UpdateService(ctx, service); err != nil {
		return nil, err
	}

	metrics.IncAdminAction("update_service")
	s.logger.Info().Int64("service_id", id).Str("title", service.Title).Msg("service updated")
	return service, nil
}

// DeleteService removes an offering permanently.
func (s *CatalogService) DeleteService(ctx context.Context, id int64) error {
	if err := s.store.DeleteService(ctx, id); err != nil {
		return err
	}

	metrics.IncAdminAction("delete_service")
	s.logger.Info().Int64("service_id", id).Msg("service deleted")
	return nil
}
