package tasklist_test

import (
	"testing"
	"time"

	"agenda/internal/tasklist"
)

func TestMaxDate(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		window tasklist.Window
		want   string
	}{
		{tasklist.Today, "2024-01-01 23:59:59"},
		{tasklist.Tomorrow, "2024-01-02 23:59:59"},
		{tasklist.Week, "2024-01-08 23:59:59"},
		{tasklist.Month, "2024-01-31 23:59:59"},
	}
	for _, tt := range tests {
		got := tasklist.FormatBound(tasklist.MaxDate(now, tt.window))
		if got != tt.want {
			t.Errorf("window %d: expected %q, got %q", tt.window, tt.want, got)
		}
	}
}

func TestMaxDate_ExcludesDayAfterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	bound := tasklist.MaxDate(now, tasklist.Week)

	if !bound.After(now.AddDate(0, 0, 7)) {
		t.Error("expected today+7 to be inside the week")
	}
	eighth := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	if !eighth.After(bound) {
		t.Error("expected today+8 to be outside the week")
	}
}

func TestPresentationFor(t *testing.T) {
	tests := []struct {
		days  int
		image string
		color string
	}{
		{0, "today.jpg", "#B13B44"},
		{1, "tomorrow.jpg", "#C9742E"},
		{7, "week.jpg", "#15721E"},
		{30, "month.jpg", "#1631BE"},
		{3, "month.jpg", "#1631BE"},
		{-1, "month.jpg", "#1631BE"},
	}
	for _, tt := range tests {
		p := tasklist.PresentationFor(tt.days)
		if p.Image != tt.image || p.Color != tt.color {
			t.Errorf("days %d: expected %s/%s, got %s/%s", tt.days, tt.image, tt.color, p.Image, p.Color)
		}
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    tasklist.Window
		wantErr bool
	}{
		{"today", tasklist.Today, false},
		{"Tomorrow", tasklist.Tomorrow, false},
		{" week ", tasklist.Week, false},
		{"month", tasklist.Month, false},
		{"3", tasklist.Window(3), false},
		{"-2", 0, true},
		{"year", 0, true},
	}
	for _, tt := range tests {
		got, err := tasklist.ParseWindow(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
