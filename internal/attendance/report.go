package attendance

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"rollcall/internal/apperr"
	"rollcall/internal/student"
)

// Report aggregates one date, optionally narrowed to one department.
// Students with no record for the date count toward neither total.
type Report struct {
	Date          string            `json:"date"`
	Department    string            `json:"department,omitempty"`
	TotalStudents int               `json:"total_students"`
	TotalPresent  int               `json:"total_present"`
	TotalAbsent   int               `json:"total_absent"`
	AllStudents   []student.Student `json:"all_students"`
	PresentList   []Entry           `json:"present_list"`
	AbsentList    []Entry           `json:"absent_list"`
}

// CSVHeader is the export header row.
var CSVHeader = []string{"Roll No", "Name", "Year", "Department", "Status", "Reason", "Date"}

// Report computes totals and lists for a date. Empty department means all
// departments. Each value comes from a single query; totalStudents is derived
// from the roster list so the two always agree.
func (s *Service) Report(ctx context.Context, date time.Time, department string) (Report, error) {
	if date.IsZero() {
		return Report{}, fmt.Errorf("%w: date required", apperr.ErrValidation)
	}

	all, err := s.roster.List(ctx, department)
	if err != nil {
		return Report{}, err
	}
	totalPresent, err := s.repo.CountByStatus(ctx, date, department, Present)
	if err != nil {
		return Report{}, err
	}
	totalAbsent, err := s.repo.CountByStatus(ctx, date, department, Absent)
	if err != nil {
		return Report{}, err
	}
	presentList, err := s.repo.ListByStatus(ctx, date, department, Present)
	if err != nil {
		return Report{}, err
	}
	absentList, err := s.repo.ListByStatus(ctx, date, department, Absent)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Date:          date.Format(dateLayout),
		Department:    department,
		TotalStudents: len(all),
		TotalPresent:  totalPresent,
		TotalAbsent:   totalAbsent,
		AllStudents:   all,
		PresentList:   presentList,
		AbsentList:    absentList,
	}, nil
}

// Export returns the CSV export rows for a date, department filter, and
// status filter, ordered by (department, name). Pure function of its inputs.
func (s *Service) Export(ctx context.Context, date time.Time, department string, filter Filter) ([]ExportRow, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date required", apperr.ErrValidation)
	}
	return s.repo.ExportRows(ctx, date, department, filter)
}

// Fields renders one export row as CSV fields matching CSVHeader.
func (r ExportRow) Fields() []string {
	return []string{r.RollNo, r.Name, strconv.Itoa(r.Year), r.Department, string(r.Status), r.Reason, r.Date}
}
