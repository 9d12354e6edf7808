package components

import (
	"strings"
	"testing"
)

func TestProgressBarCells(t *testing.T) {
	tests := []struct {
		name       string
		bar        ProgressBar
		labelWidth int
		filled     int
		empty      int
	}{
		{"half", ProgressBar{Percent: 0.5, Width: 20}, 0, 10, 10},
		{"with percent", ProgressBar{Percent: 0.5, Width: 26, ShowPercent: true}, 0, 10, 10},
		{"label eats width", ProgressBar{Percent: 1, Width: 30}, 22, 8, 0},
		{"minimum width", ProgressBar{Percent: 0.5, Width: 2}, 0, 2, 2},
		{"over full", ProgressBar{Percent: 1.7, Width: 10}, 0, 10, 0},
		{"negative", ProgressBar{Percent: -0.2, Width: 10}, 0, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filled, empty := tt.bar.cells(tt.labelWidth)
			if filled != tt.filled || empty != tt.empty {
				t.Errorf("cells = (%d, %d), want (%d, %d)", filled, empty, tt.filled, tt.empty)
			}
		})
	}
}

func TestProgressBarView(t *testing.T) {
	out := NewProgressBar("Accuracy", 0.75, true, 40).View()
	if !strings.Contains(out, "Accuracy") {
		t.Errorf("view %q missing label", out)
	}
	if !strings.Contains(out, "75%") {
		t.Errorf("view %q missing percent", out)
	}
}
