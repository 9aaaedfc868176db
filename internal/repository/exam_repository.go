package repository

import (
	"github.com/omidh/sheetgrade/internal/model"
	"gorm.io/gorm"
)

type ExamRepository interface {
	Create(exam *model.Exam) error
	FindByID(id uint) (*model.Exam, error)
	FindByCode(examCode string) (*model.Exam, error)
	FindAll() ([]model.Exam, error)
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) Create(exam *model.Exam) error {
	return r.db.Create(exam).Error
}

func (r *examRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindByCode(examCode string) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.Where("exam_code = ?", examCode).First(&exam).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindAll() ([]model.Exam, error) {
	var exams []model.Exam
	if err := r.db.Order("created_at desc").Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}
