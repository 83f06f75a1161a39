package attendance

import (
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"P", Present, false},
		{"A", Absent, false},
		{"Present", Present, false},
		{"absent", Absent, false},
		{" present ", Present, false},
		{"", "", true},
		{"unknown", "", true},
		{"PA", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusCodeRoundTrip(t *testing.T) {
	for _, st := range []Status{Present, Absent} {
		if got := statusFromCode(st.code()); got != st {
			t.Errorf("round trip %q -> %q -> %q", st, st.code(), got)
		}
	}
	if Present.code() != "P" || Absent.code() != "A" {
		t.Error("legacy wire codes must stay 'P' and 'A'")
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"", FilterAll, false},
		{"all", FilterAll, false},
		{"present", FilterPresent, false},
		{"Absent", FilterAbsent, false},
		{"everyone", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFilter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
