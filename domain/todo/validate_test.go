package todo

import (
	"strings"
	"testing"
)

func TestValidTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"single character", "a", true},
		{"normal title", "Buy groceries", true},
		{"exactly 200 characters", strings.Repeat("x", 200), true},
		{"201 characters", strings.Repeat("x", 201), false},
		{"empty", "", false},
		{"unicode counts runes not bytes", strings.Repeat("ä", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidTitle(tt.title); got != tt.want {
				t.Errorf("ValidTitle(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestValidDescription(t *testing.T) {
	if !ValidDescription("") {
		t.Error("empty description should be valid")
	}
	if !ValidDescription(strings.Repeat("x", 5000)) {
		t.Error("5000 character description should be valid")
	}
	if ValidDescription(strings.Repeat("x", 5001)) {
		t.Error("5001 character description should be invalid")
	}
}

func TestValidCategoryName(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     bool
	}{
		{"normal name", "Work", true},
		{"exactly 50 characters", strings.Repeat("x", 50), true},
		{"51 characters", strings.Repeat("x", 51), false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidCategoryName(tt.category); got != tt.want {
				t.Errorf("ValidCategoryName(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestValidHexColor(t *testing.T) {
	tests := []struct {
		name  string
		color string
		want  bool
	}{
		{"lowercase hex", "#a1b2c3", true},
		{"uppercase hex", "#A1B2C3", true},
		{"missing hash", "a1b2c3", false},
		{"short", "#abc", false},
		{"long", "#a1b2c3d4", false},
		{"non-hex characters", "#gggggg", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidHexColor(tt.color); got != tt.want {
				t.Errorf("ValidHexColor(%q) = %v, want %v", tt.color, got, tt.want)
			}
		})
	}
}

func TestValidIconName(t *testing.T) {
	tests := []struct {
		name string
		icon string
		want bool
	}{
		{"empty means no icon", "", true},
		{"simple name", "calendar", true},
		{"kebab case", "check-circle", true},
		{"digits allowed after first", "box2", true},
		{"uppercase rejected", "Calendar", false},
		{"leading digit rejected", "2box", false},
		{"leading dash rejected", "-box", false},
		{"too long", strings.Repeat("a", 51), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidIconName(tt.icon); got != tt.want {
				t.Errorf("ValidIconName(%q) = %v, want %v", tt.icon, got, tt.want)
			}
		})
	}
}

func TestValidTags(t *testing.T) {
	tenTags := make([]string, 10)
	for i := range tenTags {
		tenTags[i] = "tag"
	}

	tests := []struct {
		name string
		tags []string
		want bool
	}{
		{"nil", nil, true},
		{"empty slice", []string{}, true},
		{"normal tags", []string{"home", "errands"}, true},
		{"exactly 10 tags", tenTags, true},
		{"11 tags", append(append([]string{}, tenTags...), "extra"), false},
		{"blank tag", []string{"ok", "   "}, false},
		{"empty tag", []string{""}, false},
		{"tag too long", []string{strings.Repeat("x", 31)}, false},
		{"tag at limit", []string{strings.Repeat("x", 30)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidTags(tt.tags); got != tt.want {
				t.Errorf("ValidTags(%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}

func TestValidReminderHours(t *testing.T) {
	for _, hours := range []int{0, 24, 168} {
		if !ValidReminderHours(hours) {
			t.Errorf("ValidReminderHours(%d) should be true", hours)
		}
	}
	for _, hours := range []int{-1, 169} {
		if ValidReminderHours(hours) {
			t.Errorf("ValidReminderHours(%d) should be false", hours)
		}
	}
}

func TestEnumValidity(t *testing.T) {
	if !PriorityUrgent.IsValid() || Priority("critical").IsValid() {
		t.Error("priority validity mismatch")
	}
	if !StatusInProgress.IsValid() || Status("done").IsValid() {
		t.Error("status validity mismatch")
	}
	if !ViewBoard.IsValid() || ViewType("table").IsValid() {
		t.Error("view type validity mismatch")
	}
	if !ThemeSystem.IsValid() || Theme("auto").IsValid() {
		t.Error("theme validity mismatch")
	}
	if !DeleteModeTasks.IsValid() || CategoryDeleteMode("purge").IsValid() {
		t.Error("delete mode validity mismatch")
	}
}
