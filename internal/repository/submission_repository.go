package repository

import (
	"errors"

	"github.com/omidh/sheetgrade/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	FindByExamAndStudent(examID uint, studentCode string) (*model.ExamSubmission, error)
	Create(submission *model.ExamSubmission) error
	UpdateDerivedFields(id uint, fields map[string]interface{}) error
	FindAllByExam(examID uint) ([]model.ExamSubmission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) FindByExamAndStudent(examID uint, studentCode string) (*model.ExamSubmission, error) {
	var submission model.ExamSubmission
	err := r.db.Where("exam_id = ? AND student_code = ?", examID, studentCode).First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) Create(submission *model.ExamSubmission) error {
	return r.db.Create(submission).Error
}

func (r *submissionRepository) UpdateDerivedFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&model.ExamSubmission{}).Where("id = ?", id).Updates(fields).Error
}

func (r *submissionRepository) FindAllByExam(examID uint) ([]model.ExamSubmission, error) {
	var submissions []model.ExamSubmission
	if err := r.db.Where("exam_id = ?", examID).Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}
