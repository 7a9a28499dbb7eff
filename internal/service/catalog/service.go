package catalog

import (
	"context"
	"errors"
	"fmt"

	svcRepo "github.com/namstudio/NAM-AppointmentService/internal/infra/storage/service"
	"github.com/namstudio/NAM-AppointmentService/internal/service/catalog/models"
)

// Service сервис каталога процедур студии
type Service struct {
	repo   ServiceRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(repo ServiceRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetByID получает услугу каталога по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	s.logger.Info("GetByID: fetching service id=%d", id)

	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, svcRepo.ErrServiceNotFound) {
			s.logger.Warn("GetByID: service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(svc), nil
}

// ListActive возвращает все активные услуги каталога,
// упорядоченные по категории и названию
func (s *Service) ListActive(ctx context.Context) (*models.ServiceListResponse, error) {
	s.logger.Info("ListActive: fetching active services")

	services, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Error("ListActive: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListActive: successfully fetched %d services", len(services))
	return models.FromDomainServiceList(services), nil
}
