package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"rollcall/internal/apperr"
	"rollcall/internal/store"
)

const dateLayout = "2006-01-02"

// Record is one stored attendance row: at most one per (student_id, date).
type Record struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	Date      string `json:"date"`
	Status    Status `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

// Marking is the current state of one student on one date.
type Marking struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Entry is a student row in a report list; Reason is populated for absentees.
type Entry struct {
	RollNo     string `json:"roll_no"`
	Name       string `json:"name"`
	Year       int    `json:"year"`
	Department string `json:"department"`
	Reason     string `json:"reason,omitempty"`
}

// ExportRow is one CSV export tuple, ordered by (department, name).
type ExportRow struct {
	RollNo     string
	Name       string
	Year       int
	Department string
	Status     Status
	Reason     string
	Date       string
}

// RecordDetail is a record joined with its student, for the admin
// maintenance views that edit and delete individual records.
type RecordDetail struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	RollNo     string `json:"roll_no"`
	Name       string `json:"name"`
	Year       int    `json:"year"`
	Department string `json:"department"`
	Status     Status `json:"status"`
	Reason     string `json:"reason,omitempty"`
}

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert applies one submission as a single conditional write: the insert
// selects the student row, so a student that does not exist or belongs to a
// different department yields zero rows and no write. On a (student_id, date)
// conflict the existing record's status and reason are overwritten; the
// unique index serializes concurrent markers for the same key.
func (r *Repository) Upsert(ctx context.Context, department string, date time.Time, studentID string, st Status, reason string) (bool, error) {
	var rs any
	if reason != "" {
		rs = reason
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance (id, student_id, date, status, reason)
		SELECT $1, s.id, $2, $3, $4
		FROM students s
		WHERE s.id = $5 AND s.department = $6
		ON CONFLICT (student_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			reason = EXCLUDED.reason
	`, uuid.NewString(), date.Format(dateLayout), st.code(), rs, studentID, department)
	if err != nil {
		return false, store.Translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// StatusMap returns the current {student_id -> marking} state for a
// department and date.
func (r *Repository) StatusMap(ctx context.Context, department string, date time.Time) (map[string]Marking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.student_id, a.status, a.reason
		FROM attendance a
		JOIN students s ON a.student_id = s.id
		WHERE a.date = $1 AND s.department = $2
	`, date.Format(dateLayout), department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	marks := make(map[string]Marking)
	for rows.Next() {
		var studentID, code string
		var reason sql.NullString
		if err := rows.Scan(&studentID, &code, &reason); err != nil {
			return nil, err
		}
		marks[studentID] = Marking{Status: statusFromCode(code), Reason: reason.String}
	}
	return marks, rows.Err()
}

// CountByStatus counts records for a date and status; empty department means
// all departments.
func (r *Repository) CountByStatus(ctx context.Context, date time.Time, department string, st Status) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM attendance a
		JOIN students s ON a.student_id = s.id
		WHERE a.date = $1 AND a.status = $2`
	args := []any{date.Format(dateLayout), st.code()}
	if department != "" {
		query += ` AND s.department = $3`
		args = append(args, department)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListByStatus returns students with a record of the given status on the
// date, ordered by roll_no.
func (r *Repository) ListByStatus(ctx context.Context, date time.Time, department string, st Status) ([]Entry, error) {
	query := `
		SELECT s.roll_no, s.name, s.year, s.department, a.reason
		FROM attendance a
		JOIN students s ON a.student_id = s.id
		WHERE a.date = $1 AND a.status = $2`
	args := []any{date.Format(dateLayout), st.code()}
	if department != "" {
		query += ` AND s.department = $3`
		args = append(args, department)
	}
	query += ` ORDER BY s.roll_no`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var reason sql.NullString
		if err := rows.Scan(&e.RollNo, &e.Name, &e.Year, &e.Department, &reason); err != nil {
			return nil, err
		}
		if st == Absent {
			e.Reason = reason.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ExportRows returns export tuples for a date, optionally narrowed by
// department and status, ordered by (department, name).
func (r *Repository) ExportRows(ctx context.Context, date time.Time, department string, filter Filter) ([]ExportRow, error) {
	query := `
		SELECT s.roll_no, s.name, s.year, s.department, a.status, a.reason, a.date
		FROM attendance a
		JOIN students s ON a.student_id = s.id
		WHERE a.date = $1`
	args := []any{date.Format(dateLayout)}
	if department != "" {
		args = append(args, department)
		query += ` AND s.department = $2`
	}
	switch filter {
	case FilterPresent:
		query += ` AND a.status = '` + codePresent + `'`
	case FilterAbsent:
		query += ` AND a.status = '` + codeAbsent + `'`
	}
	query += ` ORDER BY s.department, s.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExportRow
	for rows.Next() {
		var row ExportRow
		var code string
		var reason sql.NullString
		var d time.Time
		if err := rows.Scan(&row.RollNo, &row.Name, &row.Year, &row.Department, &code, &reason, &d); err != nil {
			return nil, err
		}
		row.Status = statusFromCode(code)
		row.Reason = reason.String
		row.Date = d.Format(dateLayout)
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListRecords returns all records joined with their students, newest date
// first. This is what surfaces record ids for the edit and delete flows.
func (r *Repository) ListRecords(ctx context.Context) ([]RecordDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.date, s.roll_no, s.name, s.year, s.department, a.status, a.reason
		FROM attendance a
		JOIN students s ON a.student_id = s.id
		ORDER BY a.date DESC, s.roll_no
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecordDetail
	for rows.Next() {
		var rec RecordDetail
		var code string
		var reason sql.NullString
		var d time.Time
		if err := rows.Scan(&rec.ID, &d, &rec.RollNo, &rec.Name, &rec.Year, &rec.Department, &code, &reason); err != nil {
			return nil, err
		}
		rec.Date = d.Format(dateLayout)
		rec.Status = statusFromCode(code)
		rec.Reason = reason.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns a single record by id.
func (r *Repository) Get(ctx context.Context, id string) (Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, student_id, date, status, reason
		FROM attendance WHERE id = $1
	`, id)
	var rec Record
	var code string
	var reason sql.NullString
	var d time.Time
	if err := row.Scan(&rec.ID, &rec.StudentID, &d, &code, &reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, apperr.ErrNotFound
		}
		return Record{}, err
	}
	rec.Date = d.Format(dateLayout)
	rec.Status = statusFromCode(code)
	rec.Reason = reason.String
	return rec, nil
}

// UpdateRecord overwrites status and reason of an existing record.
func (r *Repository) UpdateRecord(ctx context.Context, id string, st Status, reason string) error {
	var rs any
	if reason != "" {
		rs = reason
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE attendance SET status = $2, reason = $3 WHERE id = $1
	`, id, st.code(), rs)
	if err != nil {
		return store.Translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteRecord removes a record by id.
func (r *Repository) DeleteRecord(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
