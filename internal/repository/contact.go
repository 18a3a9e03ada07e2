package repository

import (
	"context"
	"errors"

	"portfolio/internal/models"

	"gorm.io/gorm"
)

// ContactRepository defines the interface for contact message data operations
type ContactRepository interface {
	List(ctx context.Context) ([]models.ContactMessage, error)
	GetByID(ctx context.Context, id uint) (*models.ContactMessage, error)
	Create(ctx context.Context, message *models.ContactMessage) error
	MarkRead(ctx context.Context, id uint) (*models.ContactMessage, error)
	Delete(ctx context.Context, id uint) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact message repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) List(ctx context.Context) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id uint) (*models.ContactMessage, error) {
	var message models.ContactMessage
	if err := r.db.WithContext(ctx).First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Contact message", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &message, nil
}

func (r *contactRepository) Create(ctx context.Context, message *models.ContactMessage) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// MarkRead flips the read flag; the transition only ever goes false to true.
func (r *contactRepository) MarkRead(ctx context.Context, id uint) (*models.ContactMessage, error) {
	message, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if message.Read {
		return message, nil
	}
	if err := r.db.WithContext(ctx).Model(message).Update("read", true).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	message.Read = true
	return message, nil
}

func (r *contactRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.ContactMessage{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
