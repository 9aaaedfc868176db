package repository

import (
	"errors"

	"github.com/omidh/sheetgrade/internal/model"
	"gorm.io/gorm"
)

type ParticipantRepository interface {
	// FindByExamAndStudent returns (nil, nil) when no record exists; the
	// reconciler decides between update and insert from that.
	FindByExamAndStudent(examID uint, studentCode string) (*model.ExamParticipant, error)
	Create(participant *model.ExamParticipant) error
	// UpdateDerivedFields overwrites only the scan-derived columns of an
	// existing record, leaving fields owned by the live-exam flow intact.
	UpdateDerivedFields(id uint, fields map[string]interface{}) error
	FindAllByExam(examID uint) ([]model.ExamParticipant, error)
}

type participantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) FindByExamAndStudent(examID uint, studentCode string) (*model.ExamParticipant, error) {
	var participant model.ExamParticipant
	err := r.db.Where("exam_id = ? AND student_code = ?", examID, studentCode).First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) Create(participant *model.ExamParticipant) error {
	return r.db.Create(participant).Error
}

func (r *participantRepository) UpdateDerivedFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&model.ExamParticipant{}).Where("id = ?", id).Updates(fields).Error
}

func (r *participantRepository) FindAllByExam(examID uint) ([]model.ExamParticipant, error) {
	var participants []model.ExamParticipant
	if err := r.db.Where("exam_id = ?", examID).Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}
