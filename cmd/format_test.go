package cmd

import (
	"errors"
	"testing"

	"github.com/Tiliavir/rileva/internal/aggregate"
	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/report"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0h"},
		{8, "8h"},
		{7.5, "7.5h"},
		{0.125, "0.125h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.hours); got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestParseTask(t *testing.T) {
	tests := []struct {
		input string
		want  model.Task
		ok    bool
	}{
		{"D:8", model.Task{Code: "D", Hours: 8}, true},
		{"D:7,5", model.Task{Code: "D", Hours: 7.5}, true},
		{"D:4:ESA3582021", model.Task{Code: "D", Hours: 4, Extract: "ESA3582021"}, true},
		{" AA : 4 : BD0002022S : BdD ", model.Task{Code: "AA", Hours: 4, Extract: "BD0002022S", Client: "BdD"}, true},
		{"D", model.Task{}, false},
		{":8", model.Task{}, false},
		{"D:eight", model.Task{}, false},
		{"D:1:2:3:4", model.Task{}, false},
	}
	for _, tt := range tests {
		got, err := parseTask(tt.input)
		if tt.ok {
			if err != nil {
				t.Errorf("parseTask(%q) error: %v", tt.input, err)
				continue
			}
			if got != tt.want {
				t.Errorf("parseTask(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			continue
		}
		if !errors.Is(err, report.ErrInvalidValue) {
			t.Errorf("parseTask(%q) error = %v, want ErrInvalidValue", tt.input, err)
		}
	}
}

func TestParseIndex(t *testing.T) {
	if i, err := parseIndex("3"); err != nil || i != 2 {
		t.Errorf("parseIndex(3) = %d, %v", i, err)
	}
	for _, in := range []string{"0", "-1", "x"} {
		if _, err := parseIndex(in); !errors.Is(err, report.ErrIndexOutOfRange) {
			t.Errorf("parseIndex(%q) error = %v", in, err)
		}
	}
}

func TestQuadratureLabel(t *testing.T) {
	tests := []struct {
		q    int
		want string
	}{
		{3, "3 days to declare"},
		{-2, "2 days over"},
		{0, "balanced"},
	}
	for _, tt := range tests {
		if got := quadratureLabel(aggregate.Summary{Quadrature: tt.q}); got != tt.want {
			t.Errorf("quadratureLabel(%d) = %q, want %q", tt.q, got, tt.want)
		}
	}
}
