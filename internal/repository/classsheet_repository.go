package repository

import (
	"time"

	"github.com/omidh/sheetgrade/internal/model"
	"gorm.io/gorm"
)

type ClassSheetRepository interface {
	Create(entry *model.ClassSheetEntry) error
	// FindByStudentBetween returns a student's class-sheet cells inside
	// [from, to), oldest first. The monthly report buckets these by
	// Persian month.
	FindByStudentBetween(studentCode string, from, to time.Time) ([]model.ClassSheetEntry, error)
	FindByStudentAndCourseBetween(studentCode, courseCode string, from, to time.Time) ([]model.ClassSheetEntry, error)
}

type classSheetRepository struct {
	db *gorm.DB
}

func NewClassSheetRepository(db *gorm.DB) ClassSheetRepository {
	return &classSheetRepository{db: db}
}

func (r *classSheetRepository) Create(entry *model.ClassSheetEntry) error {
	return r.db.Create(entry).Error
}

func (r *classSheetRepository) FindByStudentBetween(studentCode string, from, to time.Time) ([]model.ClassSheetEntry, error) {
	var entries []model.ClassSheetEntry
	err := r.db.
		Where("student_code = ? AND date >= ? AND date < ?", studentCode, from, to).
		Order("date asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *classSheetRepository) FindByStudentAndCourseBetween(studentCode, courseCode string, from, to time.Time) ([]model.ClassSheetEntry, error) {
	var entries []model.ClassSheetEntry
	err := r.db.
		Where("student_code = ? AND course_code = ? AND date >= ? AND date < ?", studentCode, courseCode, from, to).
		Order("date asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
