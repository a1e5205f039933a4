package models

import "testing"

func TestParseTargetAudience(t *testing.T) {
	tests := []struct {
		input   string
		want    TargetAudience
		wantErr bool
	}{
		{input: "all", want: TargetAudience{Scope: AudienceAll}},
		{input: "faculty", want: TargetAudience{Scope: AudienceFaculty}},
		{input: "student", want: TargetAudience{Scope: AudienceStudent}},
		{input: "course:12", want: TargetAudience{Scope: AudienceCourse, ID: 12}},
		{input: "section:3", want: TargetAudience{Scope: AudienceSection, ID: 3}},
		{input: "program:7", want: TargetAudience{Scope: AudienceProgram, ID: 7}},
		{input: "everyone", wantErr: true},
		{input: "course:", wantErr: true},
		{input: "course:0", wantErr: true},
		{input: "course:abc", wantErr: true},
		{input: "dorm:5", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseTargetAudience(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTargetAudience(%q) expected error, got %+v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTargetAudience(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTargetAudience(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestTargetAudience_RoundTrip(t *testing.T) {
	for _, s := range []string{"all", "faculty", "student", "course:12", "section:3", "program:7"} {
		audience, err := ParseTargetAudience(s)
		if err != nil {
			t.Fatalf("ParseTargetAudience(%q) failed: %v", s, err)
		}
		if audience.String() != s {
			t.Errorf("String() = %q, want %q", audience.String(), s)
		}
	}
}
