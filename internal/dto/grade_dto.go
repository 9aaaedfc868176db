package dto

import "github.com/omidh/sheetgrade/internal/model"

// MonthlyGradeDTO aggregates one Persian month of one course for a student.
// FinalScore is nil when the month has no numeric grades, regardless of how
// many assessments it has.
type MonthlyGradeDTO struct {
	Month           int                     `json:"month"` // 1..12, Persian calendar
	MonthName       string                  `json:"monthName"`
	Grades          []model.GradeEntry      `json:"grades"`
	Assessments     []model.AssessmentEntry `json:"assessments"`
	FinalScore      *float64                `json:"finalScore"`
	GradeCount      int                     `json:"gradeCount"`
	AssessmentCount int                     `json:"assessmentCount"`
}

type CourseGradeDTO struct {
	CourseCode       string            `json:"courseCode"`
	TeacherCode      string            `json:"teacherCode"`
	MonthlyGrades    []MonthlyGradeDTO `json:"monthlyGrades"`
	YearAverage      *float64          `json:"yearAverage"`
	TotalGrades      int               `json:"totalGrades"`
	TotalAssessments int               `json:"totalAssessments"`
}

type MonthlyGradeReportDTO struct {
	StudentCode    string           `json:"studentCode"`
	Year           int              `json:"year"` // Persian year
	CourseGrades   []CourseGradeDTO `json:"courseGrades"`
	OverallAverage *float64         `json:"overallAverage"`
}
