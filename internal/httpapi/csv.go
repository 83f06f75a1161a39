package httpapi

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rollcall/internal/apperr"
	"rollcall/internal/student"
)

// parseStudentCSV reads an uploaded students file. The first row is a header
// naming at least roll_no, name, year, and department, in any column order.
// Field validation happens in the import engine, not here.
func parseStudentCSV(r io.Reader) ([]student.Student, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: empty or unreadable CSV", apperr.ErrValidation)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"roll_no", "name", "year", "department"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing CSV column %q", apperr.ErrValidation, required)
		}
	}

	field := func(record []string, name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []student.Student
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed CSV: %v", apperr.ErrValidation, err)
		}
		year, _ := strconv.Atoi(field(record, "year"))
		rows = append(rows, student.Student{
			RollNo:     field(record, "roll_no"),
			Name:       field(record, "name"),
			Year:       year,
			Department: field(record, "department"),
		})
	}
	return rows, nil
}
