package repository

import (
	"context"
	"errors"

	"portfolio/internal/models"

	"gorm.io/gorm"
)

// SkillRepository covers skill groups and the skills inside them.
type SkillRepository interface {
	ListGroups(ctx context.Context) ([]models.SkillGroup, error)
	GetGroupByID(ctx context.Context, id uint) (*models.SkillGroup, error)
	CreateGroup(ctx context.Context, group *models.SkillGroup) error
	UpdateGroup(ctx context.Context, group *models.SkillGroup) error
	DeleteGroup(ctx context.Context, id uint) error

	GetSkillByID(ctx context.Context, id uint) (*models.Skill, error)
	CreateSkill(ctx context.Context, skill *models.Skill) error
	UpdateSkill(ctx context.Context, skill *models.Skill) error
	DeleteSkill(ctx context.Context, id uint) error
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository creates a new skill repository
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) ListGroups(ctx context.Context) ([]models.SkillGroup, error) {
	var groups []models.SkillGroup
	if err := r.db.WithContext(ctx).
		Preload("Skills").
		Order("id ASC").
		Find(&groups).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return groups, nil
}

func (r *skillRepository) GetGroupByID(ctx context.Context, id uint) (*models.SkillGroup, error) {
	var group models.SkillGroup
	if err := r.db.WithContext(ctx).Preload("Skills").First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Skill group", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &group, nil
}

func (r *skillRepository) CreateGroup(ctx context.Context, group *models.SkillGroup) error {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRepository) UpdateGroup(ctx context.Context, group *models.SkillGroup) error {
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRepository) DeleteGroup(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.SkillGroup{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRepository) GetSkillByID(ctx context.Context, id uint) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Skill", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &skill, nil
}

// CreateSkill requires the referenced group to exist.
func (r *skillRepository) CreateSkill(ctx context.Context, skill *models.Skill) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SkillGroup{}).
		Where("id = ?", skill.GroupID).
		Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("Skill group", skill.GroupID)
	}
	if err := r.db.WithContext(ctx).Create(skill).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRepository) UpdateSkill(ctx context.Context, skill *models.Skill) error {
	if err := r.db.WithContext(ctx).Save(skill).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *skillRepository) DeleteSkill(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Skill{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
