package repository

import (
	"github.com/omidh/sheetgrade/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.ExamQuestion) error
	FindByID(id uint) (*model.ExamQuestion, error)
	// FindByExamIDOrdered returns the exam's questions in print order:
	// created_at descending. Downstream grading is positional, so this
	// ordering must never change.
	FindByExamIDOrdered(examID uint) ([]model.ExamQuestion, error)
	Update(question *model.ExamQuestion) error
	Delete(id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.ExamQuestion) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.ExamQuestion, error) {
	var question model.ExamQuestion
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByExamIDOrdered(examID uint) ([]model.ExamQuestion, error) {
	var questions []model.ExamQuestion
	if err := r.db.Where("exam_id = ?", examID).Order("created_at desc").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Update(question *model.ExamQuestion) error {
	return r.db.Save(question).Error
}

func (r *questionRepository) Delete(id uint) error {
	return r.db.Delete(&model.ExamQuestion{}, id).Error
}
