package service

import "testing"

func TestResolveStudentCode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{name: "student and exam code", payload: "1234567890-EX01", want: "1234567890"},
		{name: "student code only", payload: "1234567890", want: "1234567890"},
		{name: "empty payload", payload: "", want: ""},
		{name: "multiple dashes split on first", payload: "42-EX-01", want: "42"},
		{name: "leading dash", payload: "-EX01", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveStudentCode(tt.payload); got != tt.want {
				t.Errorf("ResolveStudentCode(%q) = %q, want %q", tt.payload, got, tt.want)
			}
		})
	}
}

func TestParseIdentityPayload(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		wantStudent string
		wantExam    string
		wantErr     bool
	}{
		{name: "valid", payload: "1234567890-EX01", wantStudent: "1234567890", wantExam: "EX01"},
		{name: "exam code with dash", payload: "42-EX-01", wantStudent: "42", wantExam: "EX-01"},
		{name: "no dash", payload: "1234567890", wantErr: true},
		{name: "empty", payload: "", wantErr: true},
		{name: "missing student half", payload: "-EX01", wantErr: true},
		{name: "missing exam half", payload: "42-", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			student, exam, err := ParseIdentityPayload(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIdentityPayload(%q) error = %v, wantErr %v", tt.payload, err, tt.wantErr)
			}
			if student != tt.wantStudent || exam != tt.wantExam {
				t.Errorf("ParseIdentityPayload(%q) = (%q, %q), want (%q, %q)", tt.payload, student, exam, tt.wantStudent, tt.wantExam)
			}
		})
	}
}
