package service

import (
	"testing"
	"time"

	"github.com/omidh/sheetgrade/internal/model"
	ptime "github.com/yaa110/go-persian-calendar"
)

type fakeClassSheetRepo struct {
	entries []model.ClassSheetEntry
	from    time.Time
	to      time.Time
}

func (f *fakeClassSheetRepo) Create(entry *model.ClassSheetEntry) error { return nil }

func (f *fakeClassSheetRepo) FindByStudentBetween(studentCode string, from, to time.Time) ([]model.ClassSheetEntry, error) {
	f.from, f.to = from, to
	return f.entries, nil
}

func (f *fakeClassSheetRepo) FindByStudentAndCourseBetween(studentCode, courseCode string, from, to time.Time) ([]model.ClassSheetEntry, error) {
	return nil, nil
}

func persianDate(year int, month ptime.Month, day int) time.Time {
	return ptime.Date(year, month, day, 12, 0, 0, 0, ptime.Iran()).Time()
}

func TestMonthlyReportBucketsByPersianMonth(t *testing.T) {
	const year = 1404
	repo := &fakeClassSheetRepo{entries: []model.ClassSheetEntry{
		{
			CourseCode:  "MATH",
			TeacherCode: "T1",
			StudentCode: "1234567890",
			Date:        persianDate(year, ptime.Mehr, 5),
			Grades:      model.GradeEntryList{{Value: 18}},
		},
		{
			CourseCode:  "MATH",
			TeacherCode: "T1",
			StudentCode: "1234567890",
			Date:        persianDate(year, ptime.Mehr, 20),
			Assessments: model.AssessmentEntryList{{Value: "عالی"}},
		},
		{
			CourseCode:  "MATH",
			TeacherCode: "T1",
			StudentCode: "1234567890",
			Date:        persianDate(year, ptime.Aban, 3),
			Grades:      model.GradeEntryList{{Value: 10}},
		},
		{
			CourseCode:  "SCI",
			TeacherCode: "T2",
			StudentCode: "1234567890",
			Date:        persianDate(year, ptime.Mehr, 7),
			Grades:      model.GradeEntryList{{Value: 16}},
		},
	}}
	svc := NewMonthlyGradeService(repo, NewScoreService())

	report, err := svc.MonthlyReport("1234567890", year)
	if err != nil {
		t.Fatalf("MonthlyReport() error = %v", err)
	}

	// The query window is the whole Persian year.
	wantFrom := ptime.Date(year, ptime.Farvardin, 1, 0, 0, 0, 0, ptime.Iran()).Time()
	if !repo.from.Equal(wantFrom) {
		t.Errorf("query from = %v, want %v", repo.from, wantFrom)
	}

	if len(report.CourseGrades) != 2 {
		t.Fatalf("courses = %d, want 2", len(report.CourseGrades))
	}
	// Courses come back sorted by course code.
	math, sci := report.CourseGrades[0], report.CourseGrades[1]
	if math.CourseCode != "MATH" || sci.CourseCode != "SCI" {
		t.Fatalf("course order = %q, %q", math.CourseCode, sci.CourseCode)
	}
	if math.TeacherCode != "T1" {
		t.Errorf("MATH teacher = %q, want T1", math.TeacherCode)
	}

	if len(math.MonthlyGrades) != 12 {
		t.Fatalf("months = %d, want all 12 emitted", len(math.MonthlyGrades))
	}

	mehr := math.MonthlyGrades[int(ptime.Mehr)-1]
	if mehr.Month != int(ptime.Mehr) {
		t.Fatalf("month index mismatch: %d", mehr.Month)
	}
	// Grade from one session and assessment from another merge into the
	// same month bucket: 18/20*20 + 2 capped at 20.
	if mehr.FinalScore == nil || *mehr.FinalScore != 20 {
		t.Errorf("Mehr final = %v, want 20", mehr.FinalScore)
	}
	if mehr.GradeCount != 1 || mehr.AssessmentCount != 1 {
		t.Errorf("Mehr counts = %d/%d, want 1/1", mehr.GradeCount, mehr.AssessmentCount)
	}

	aban := math.MonthlyGrades[int(ptime.Aban)-1]
	if aban.FinalScore == nil || *aban.FinalScore != 10 {
		t.Errorf("Aban final = %v, want 10", aban.FinalScore)
	}

	// Months without entries report no score at all.
	dey := math.MonthlyGrades[int(ptime.Dey)-1]
	if dey.FinalScore != nil {
		t.Errorf("Dey final = %v, want nil", dey.FinalScore)
	}
	if dey.MonthName == "" {
		t.Error("empty months still carry their name")
	}

	// Year average is the mean of scored months only: (20+10)/2.
	if math.YearAverage == nil || *math.YearAverage != 15 {
		t.Errorf("MATH year average = %v, want 15", math.YearAverage)
	}
	if sci.YearAverage == nil || *sci.YearAverage != 16 {
		t.Errorf("SCI year average = %v, want 16", sci.YearAverage)
	}
	if report.OverallAverage == nil || *report.OverallAverage != 15.5 {
		t.Errorf("overall average = %v, want 15.5", report.OverallAverage)
	}

	if math.TotalGrades != 2 || math.TotalAssessments != 1 {
		t.Errorf("MATH totals = %d/%d, want 2/1", math.TotalGrades, math.TotalAssessments)
	}
}

func TestMonthlyReportNoEntries(t *testing.T) {
	svc := NewMonthlyGradeService(&fakeClassSheetRepo{}, NewScoreService())

	report, err := svc.MonthlyReport("999", 1404)
	if err != nil {
		t.Fatalf("MonthlyReport() error = %v", err)
	}
	if len(report.CourseGrades) != 0 {
		t.Errorf("courses = %d, want 0", len(report.CourseGrades))
	}
	if report.OverallAverage != nil {
		t.Errorf("overall average = %v, want nil", report.OverallAverage)
	}
}
