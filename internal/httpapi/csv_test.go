package httpapi

import (
	"errors"
	"strings"
	"testing"

	"rollcall/internal/apperr"
)

func TestParseStudentCSV(t *testing.T) {
	in := strings.NewReader(
		"roll_no,name,year,department\n" +
			"CSE001, Asha ,2,CSE\n" +
			"ECE001,Meena,3,ECE\n")

	rows, err := parseStudentCSV(in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].RollNo != "CSE001" || rows[0].Name != "Asha" || rows[0].Year != 2 || rows[0].Department != "CSE" {
		t.Errorf("row 0 = %+v", rows[0])
	}
}

func TestParseStudentCSVColumnOrder(t *testing.T) {
	in := strings.NewReader(
		"Department,Year,Name,Roll_No\n" +
			"CSE,2,Asha,CSE001\n")

	rows, err := parseStudentCSV(in)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rows[0].RollNo != "CSE001" || rows[0].Department != "CSE" {
		t.Errorf("header matching must be case-insensitive and order-free, got %+v", rows[0])
	}
}

func TestParseStudentCSVMissingColumn(t *testing.T) {
	in := strings.NewReader("roll_no,name\nCSE001,Asha\n")
	if _, err := parseStudentCSV(in); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestParseStudentCSVEmpty(t *testing.T) {
	if _, err := parseStudentCSV(strings.NewReader("")); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
