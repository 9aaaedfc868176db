package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/omidh/sheetgrade/internal/dto"
	"github.com/omidh/sheetgrade/internal/model"
	"github.com/omidh/sheetgrade/internal/repository"
	"github.com/rs/zerolog/log"
	ptime "github.com/yaa110/go-persian-calendar"
)

// MonthlyGradeService builds the teacher-facing monthly report: class-sheet
// grade and assessment entries bucketed per course per Persian month, each
// month normalized through CalculateFinalScore. Nothing here is persisted;
// the report is recomputed on read from the append-only entries.
type MonthlyGradeService interface {
	MonthlyReport(studentCode string, persianYear int) (*dto.MonthlyGradeReportDTO, error)
}

type monthlyGradeService struct {
	classSheetRepo repository.ClassSheetRepository
	scoreSvc       ScoreService
}

func NewMonthlyGradeService(classSheetRepo repository.ClassSheetRepository, scoreSvc ScoreService) MonthlyGradeService {
	return &monthlyGradeService{classSheetRepo: classSheetRepo, scoreSvc: scoreSvc}
}

func (s *monthlyGradeService) MonthlyReport(studentCode string, persianYear int) (*dto.MonthlyGradeReportDTO, error) {
	loc := ptime.Iran()
	from := ptime.Date(persianYear, ptime.Farvardin, 1, 0, 0, 0, 0, loc).Time()
	to := ptime.Date(persianYear+1, ptime.Farvardin, 1, 0, 0, 0, 0, loc).Time()

	entries, err := s.classSheetRepo.FindByStudentBetween(studentCode, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading class sheet entries for student %s: %w", studentCode, err)
	}

	type monthBucket struct {
		grades      []model.GradeEntry
		assessments []model.AssessmentEntry
	}
	type courseBucket struct {
		teacherCode string
		months      map[int]*monthBucket
	}

	courses := make(map[string]*courseBucket)
	for _, entry := range entries {
		course, ok := courses[entry.CourseCode]
		if !ok {
			course = &courseBucket{teacherCode: entry.TeacherCode, months: make(map[int]*monthBucket)}
			courses[entry.CourseCode] = course
		}

		month := int(ptime.New(entry.Date.In(loc)).Month())
		bucket, ok := course.months[month]
		if !ok {
			bucket = &monthBucket{}
			course.months[month] = bucket
		}
		bucket.grades = append(bucket.grades, entry.Grades...)
		bucket.assessments = append(bucket.assessments, entry.Assessments...)
	}

	courseCodes := make([]string, 0, len(courses))
	for code := range courses {
		courseCodes = append(courseCodes, code)
	}
	sort.Strings(courseCodes)

	report := &dto.MonthlyGradeReportDTO{
		StudentCode:  studentCode,
		Year:         persianYear,
		CourseGrades: make([]dto.CourseGradeDTO, 0, len(courseCodes)),
	}

	var courseAverages []float64
	for _, code := range courseCodes {
		course := courses[code]
		courseDTO := dto.CourseGradeDTO{
			CourseCode:    code,
			TeacherCode:   course.teacherCode,
			MonthlyGrades: make([]dto.MonthlyGradeDTO, 0, 12),
		}

		var monthScores []float64
		for month := 1; month <= 12; month++ {
			monthDTO := dto.MonthlyGradeDTO{
				Month:       month,
				MonthName:   ptime.Month(month).String(),
				Grades:      []model.GradeEntry{},
				Assessments: []model.AssessmentEntry{},
			}
			if bucket, ok := course.months[month]; ok {
				monthDTO.Grades = bucket.grades
				monthDTO.Assessments = bucket.assessments
				monthDTO.GradeCount = len(bucket.grades)
				monthDTO.AssessmentCount = len(bucket.assessments)
				monthDTO.FinalScore = s.scoreSvc.CalculateFinalScore(bucket.grades, bucket.assessments)
				if monthDTO.FinalScore != nil {
					monthScores = append(monthScores, *monthDTO.FinalScore)
				}
			}
			courseDTO.TotalGrades += monthDTO.GradeCount
			courseDTO.TotalAssessments += monthDTO.AssessmentCount
			courseDTO.MonthlyGrades = append(courseDTO.MonthlyGrades, monthDTO)
		}

		if avg := mean(monthScores); avg != nil {
			courseDTO.YearAverage = avg
			courseAverages = append(courseAverages, *avg)
		}
		report.CourseGrades = append(report.CourseGrades, courseDTO)
	}

	report.OverallAverage = mean(courseAverages)

	log.Info().
		Str("studentCode", studentCode).
		Int("persianYear", persianYear).
		Int("courses", len(report.CourseGrades)).
		Msg("Monthly grade report built")
	return report, nil
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}

// CurrentPersianYear is a convenience for callers that omit the year.
func CurrentPersianYear() int {
	return ptime.New(time.Now()).Year()
}
