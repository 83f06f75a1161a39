package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/student"
)

var reportDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

// seedReportData marks 7 of 10 CSE students Present and 2 Absent on
// reportDate; one student stays unmarked. A second department exists to prove
// filtering.
func seedReportData(t *testing.T) (*fakeRepo, *Service) {
	t.Helper()
	repo := newFakeRepo(cseStudents(10)...)
	repo.students["e01"] = student.Student{ID: "e01", RollNo: "ECE001", Name: "Other Dept", Year: 3, Department: "ECE"}
	svc := NewService(repo, repo)

	var subs []Submission
	for i := 1; i <= 7; i++ {
		subs = append(subs, Submission{StudentID: fmt.Sprintf("s%02d", i), Status: "P"})
	}
	subs = append(subs,
		Submission{StudentID: "s08", Status: "A", Reason: "sick"},
		Submission{StudentID: "s09", Status: "A", Reason: "travel"},
	)
	_, err := svc.Mark(context.Background(), "CSE", reportDate, subs)
	require.NoError(t, err)

	_, err = svc.Mark(context.Background(), "ECE", reportDate, []Submission{{StudentID: "e01", Status: "P"}})
	require.NoError(t, err)
	return repo, svc
}

func TestReportAggregation(t *testing.T) {
	_, svc := seedReportData(t)

	report, err := svc.Report(context.Background(), reportDate, "CSE")
	require.NoError(t, err)

	assert.Equal(t, 10, report.TotalStudents)
	assert.Equal(t, 7, report.TotalPresent)
	assert.Equal(t, 2, report.TotalAbsent)
	assert.LessOrEqual(t, report.TotalPresent+report.TotalAbsent, report.TotalStudents,
		"one student has no record and counts toward neither total")

	require.Len(t, report.AllStudents, 10)
	assert.Equal(t, "CSE001", report.AllStudents[0].RollNo, "roster ordered by roll_no")

	require.Len(t, report.PresentList, 7)
	require.Len(t, report.AbsentList, 2)
	assert.Equal(t, "sick", report.AbsentList[0].Reason)
	assert.Empty(t, report.PresentList[0].Reason, "reason carried only on the absent list")
}

func TestReportAllDepartments(t *testing.T) {
	_, svc := seedReportData(t)

	report, err := svc.Report(context.Background(), reportDate, "")
	require.NoError(t, err)

	assert.Equal(t, 11, report.TotalStudents)
	assert.Equal(t, 8, report.TotalPresent)
	assert.Equal(t, 2, report.TotalAbsent)
}

func TestExportMatchesReportLists(t *testing.T) {
	_, svc := seedReportData(t)
	ctx := context.Background()

	report, err := svc.Report(ctx, reportDate, "CSE")
	require.NoError(t, err)
	rows, err := svc.Export(ctx, reportDate, "CSE", FilterPresent)
	require.NoError(t, err)

	require.Len(t, rows, len(report.PresentList))
	inReport := make(map[string]bool, len(report.PresentList))
	for _, e := range report.PresentList {
		inReport[e.RollNo] = true
	}
	for _, row := range rows {
		assert.True(t, inReport[row.RollNo], "export row %s missing from report present list", row.RollNo)
		assert.Equal(t, Present, row.Status)
		assert.Equal(t, "2024-01-15", row.Date)
	}
}

func TestExportOrderAndFilters(t *testing.T) {
	_, svc := seedReportData(t)
	ctx := context.Background()

	all, err := svc.Export(ctx, reportDate, "", FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 10) // 9 CSE records + 1 ECE record

	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		ordered := prev.Department < cur.Department ||
			(prev.Department == cur.Department && prev.Name <= cur.Name)
		assert.True(t, ordered, "rows must be ordered by (department, name)")
	}

	absent, err := svc.Export(ctx, reportDate, "CSE", FilterAbsent)
	require.NoError(t, err)
	require.Len(t, absent, 2)
	for _, row := range absent {
		assert.Equal(t, Absent, row.Status)
		assert.NotEmpty(t, row.Reason)
	}
}

func TestExportRowFields(t *testing.T) {
	row := ExportRow{
		RollNo:     "CSE001",
		Name:       "Student 01",
		Year:       2,
		Department: "CSE",
		Status:     Absent,
		Reason:     "sick",
		Date:       "2024-01-15",
	}
	assert.Equal(t, []string{"CSE001", "Student 01", "2", "CSE", "Absent", "sick", "2024-01-15"}, row.Fields())
	assert.Len(t, CSVHeader, len(row.Fields()))
}
