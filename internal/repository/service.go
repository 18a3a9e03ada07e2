package repository

import (
	"context"
	"errors"

	"portfolio/internal/models"

	"gorm.io/gorm"
)

// ServiceRepository defines the interface for service-offering data operations
type ServiceRepository interface {
	List(ctx context.Context) ([]models.Service, error)
	GetByID(ctx context.Context, id uint) (*models.Service, error)
	Create(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id uint) error
}

type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) List(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := r.db.WithContext(ctx).
		Order("popular DESC, created_at ASC").
		Find(&services).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return services, nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Service", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &service, nil
}

func (r *serviceRepository) Create(ctx context.Context, service *models.Service) error {
	if err := r.db.WithContext(ctx).Create(service).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *serviceRepository) Update(ctx context.Context, service *models.Service) error {
	if err := r.db.WithContext(ctx).Save(service).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Service{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
