package repository

import (
	"github.com/pledgekit/pledgekit/app/models"
	"gorm.io/gorm"
)

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a project repository backed by GORM.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

func (r *projectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) GetForSubscription(id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Preload("Plan").
		Preload("Organization.ConnectAccount").
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) GetByPlanID(planID uint) (*models.Project, error) {
	var plan models.Plan
	if err := r.db.First(&plan, planID).Error; err != nil {
		return nil, err
	}

	var project models.Project
	err := r.db.
		Preload("Plan").
		First(&project, plan.ProjectID).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

func (r *projectRepository) List(offset, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Count(&count).Error
	return count, err
}
