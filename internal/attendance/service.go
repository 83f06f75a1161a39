package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rollcall/internal/apperr"
	"rollcall/internal/student"
)

// Submission is one per-student entry in a marking batch. Status arrives as a
// raw string from the caller; an empty status means "no change this session".
type Submission struct {
	StudentID string `json:"student_id"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

// Outcomes of a single submission.
const (
	OutcomeApplied  = "applied"
	OutcomeSkipped  = "skipped"
	OutcomeRejected = "rejected"
)

// MarkResult is the per-submission outcome of a marking batch.
type MarkResult struct {
	StudentID string `json:"student_id"`
	Outcome   string `json:"outcome"`
	Error     string `json:"error,omitempty"`
}

// Sheet is the read-back state for a department and date: the roster plus the
// current marking per student.
type Sheet struct {
	Department string             `json:"department"`
	Date       string             `json:"date"`
	Students   []student.Student  `json:"students"`
	Marks      map[string]Marking `json:"marks"`
}

// Repo is the persistence surface the service needs.
type Repo interface {
	Upsert(ctx context.Context, department string, date time.Time, studentID string, st Status, reason string) (bool, error)
	StatusMap(ctx context.Context, department string, date time.Time) (map[string]Marking, error)
	CountByStatus(ctx context.Context, date time.Time, department string, st Status) (int, error)
	ListByStatus(ctx context.Context, date time.Time, department string, st Status) ([]Entry, error)
	ExportRows(ctx context.Context, date time.Time, department string, filter Filter) ([]ExportRow, error)
	ListRecords(ctx context.Context) ([]RecordDetail, error)
	Get(ctx context.Context, id string) (Record, error)
	UpdateRecord(ctx context.Context, id string, st Status, reason string) error
	DeleteRecord(ctx context.Context, id string) error
}

// Roster lists students; satisfied by the student service and repo.
type Roster interface {
	List(ctx context.Context, department string) ([]student.Student, error)
}

// Service implements attendance marking and reporting.
type Service struct {
	repo   Repo
	roster Roster
}

// NewService creates a service.
func NewService(repo Repo, roster Roster) *Service {
	return &Service{repo: repo, roster: roster}
}

// Mark applies a batch of submissions for one department and date. Each valid
// submission is an idempotent upsert keyed on (student_id, date); a failing
// submission never aborts the rest of the batch. The department comes from
// the caller's explicit scope, never from ambient state.
func (s *Service) Mark(ctx context.Context, department string, date time.Time, subs []Submission) ([]MarkResult, error) {
	if department == "" {
		return nil, fmt.Errorf("%w: department required", apperr.ErrValidation)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date required", apperr.ErrValidation)
	}

	results := make([]MarkResult, 0, len(subs))
	for _, sub := range subs {
		res := MarkResult{StudentID: sub.StudentID}

		if sub.Status == "" {
			res.Outcome = OutcomeSkipped
			results = append(results, res)
			markOutcomes.WithLabelValues(OutcomeSkipped).Inc()
			continue
		}

		st, err := ParseStatus(sub.Status)
		if err != nil {
			res.Outcome = OutcomeRejected
			res.Error = err.Error()
		} else if sub.StudentID == "" {
			res.Outcome = OutcomeRejected
			res.Error = "student_id required"
		} else if applied, err := s.repo.Upsert(ctx, department, date, sub.StudentID, st, sub.Reason); err != nil {
			res.Outcome = OutcomeRejected
			res.Error = err.Error()
		} else if !applied {
			res.Outcome = OutcomeRejected
			res.Error = "student not found in department"
		} else {
			res.Outcome = OutcomeApplied
		}

		markOutcomes.WithLabelValues(res.Outcome).Inc()
		results = append(results, res)
	}
	return results, nil
}

// Sheet returns the department roster and the current marking state for the
// date, reflecting all previously applied writes.
func (s *Service) Sheet(ctx context.Context, department string, date time.Time) (Sheet, error) {
	if department == "" {
		return Sheet{}, fmt.Errorf("%w: department required", apperr.ErrValidation)
	}
	students, err := s.roster.List(ctx, department)
	if err != nil {
		return Sheet{}, err
	}
	marks, err := s.repo.StatusMap(ctx, department, date)
	if err != nil {
		return Sheet{}, err
	}
	return Sheet{
		Department: department,
		Date:       date.Format(dateLayout),
		Students:   students,
		Marks:      marks,
	}, nil
}

// Records lists all stored records with student details, newest date first,
// for the admin maintenance view.
func (s *Service) Records(ctx context.Context) ([]RecordDetail, error) {
	return s.repo.ListRecords(ctx)
}

// Record returns one attendance record by id.
func (s *Service) Record(ctx context.Context, id string) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("%w: record id required", apperr.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// UpdateRecord overwrites status and reason of an existing record. Single
// entity semantics: any failure fails the whole call.
func (s *Service) UpdateRecord(ctx context.Context, id, rawStatus, reason string) error {
	if id == "" {
		return fmt.Errorf("%w: record id required", apperr.ErrValidation)
	}
	st, err := ParseStatus(rawStatus)
	if err != nil {
		return err
	}
	return s.repo.UpdateRecord(ctx, id, st, reason)
}

// DeleteRecord removes a record by id.
func (s *Service) DeleteRecord(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: record id required", apperr.ErrValidation)
	}
	if err := s.repo.DeleteRecord(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}
