package student

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"rollcall/internal/store"
)

// Student is a registered student. RollNo is globally unique; department is a
// denormalized string, not a separate entity.
type Student struct {
	ID         string `json:"id"`
	RollNo     string `json:"roll_no"`
	Name       string `json:"name"`
	Year       int    `json:"year"`
	Department string `json:"department"`
}

// Repository persists students in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new student, assigning an id. A duplicate roll_no surfaces
// as a constraint violation.
func (r *Repository) Insert(ctx context.Context, st Student) (Student, error) {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, roll_no, name, year, department)
		VALUES ($1, $2, $3, $4, $5)
	`, st.ID, st.RollNo, st.Name, st.Year, st.Department)
	if err != nil {
		return Student{}, store.Translate(err)
	}
	return st, nil
}

// List returns students ordered by roll_no. Empty department means all
// departments.
func (r *Repository) List(ctx context.Context, department string) ([]Student, error) {
	query := `SELECT id, roll_no, name, year, department FROM students`
	args := []any{}
	if department != "" {
		query += ` WHERE department = $1`
		args = append(args, department)
	}
	query += ` ORDER BY roll_no`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.RollNo, &st.Name, &st.Year, &st.Department); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// Departments returns the distinct department values across all students,
// alphabetically.
func (r *Repository) Departments(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT TRIM(department) FROM students ORDER BY 1
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}
