package core

import "testing"

func TestCleanString(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		lower bool
		want  string
	}{
		{name: "trims", in: "  Mary ", want: "Mary"},
		{name: "keeps case by default", in: "Mary", want: "Mary"},
		{name: "lowers on demand", in: " MARY@School.EDU ", lower: true, want: "mary@school.edu"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanString(tt.in, tt.lower); got != tt.want {
				t.Errorf("CleanString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCustomValidations(t *testing.T) {
	type subject struct {
		Username string `json:"username" validate:"omitempty,alphanum_"`
		Phone    string `json:"phone" validate:"omitempty,phone"`
		Time     string `json:"time" validate:"omitempty,hhmm"`
	}

	tests := []struct {
		name      string
		sub       subject
		wantField string
	}{
		{name: "all empty", sub: subject{}},
		{name: "valid", sub: subject{Username: "mary_07", Phone: "+243123456789", Time: "23:59"}},
		{name: "username with dash", sub: subject{Username: "mary-07"}, wantField: "username"},
		{name: "username with space", sub: subject{Username: "mary 07"}, wantField: "username"},
		{name: "phone too short", sub: subject{Phone: "12345"}, wantField: "phone"},
		{name: "phone with letters", sub: subject{Phone: "+12345abcde"}, wantField: "phone"},
		{name: "hour out of range", sub: subject{Time: "24:00"}, wantField: "time"},
		{name: "minutes out of range", sub: subject{Time: "12:60"}, wantField: "time"},
		{name: "missing leading zero", sub: subject{Time: "9:00"}, wantField: "time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TranslateValidatorErr(Validate.Struct(tt.sub))
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate.Struct() unexpected error: %v", err)
				}
				return
			}
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if len(vErr.Fields) != 1 || vErr.Fields[0].Field != tt.wantField {
				t.Errorf("Fields = %+v, want one error for %q", vErr.Fields, tt.wantField)
			}
		})
	}
}
