package domain

import (
	"testing"
	"time"
)

func TestParseFormDate(t *testing.T) {
	want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2025-03-15", "2025/03/15", "2025.03.15", " 2025-03-15 "} {
		got := ParseFormDate(in)
		if got == nil {
			t.Errorf("ParseFormDate(%q) = nil, want %v", in, want)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseFormDate(%q) = %v, want %v", in, got, want)
		}
	}

	// 不带补零的写法
	if got := ParseFormDate("2025-3-5"); got == nil || got.Month() != time.March || got.Day() != 5 {
		t.Errorf("ParseFormDate(2025-3-5) = %v", got)
	}

	for _, in := range []string{"", "  ", "not-a-date", "15/03/2025"} {
		if got := ParseFormDate(in); got != nil {
			t.Errorf("ParseFormDate(%q) = %v, want nil", in, got)
		}
	}
}

func TestNormalizeSkillLevel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"beginner", SkillBeginner},
		{"advanced", SkillAdvanced},
		{"expert", SkillExpert},
		{"intermediate", SkillIntermediate},
		{"", SkillIntermediate},
		{"wizard", SkillIntermediate},
	}
	for _, tc := range cases {
		if got := NormalizeSkillLevel(tc.in); got != tc.want {
			t.Errorf("NormalizeSkillLevel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSkillLevelAtLeast(t *testing.T) {
	if !SkillLevelAtLeast(SkillExpert, SkillBeginner) {
		t.Error("expert should be at least beginner")
	}
	if SkillLevelAtLeast(SkillBeginner, SkillAdvanced) {
		t.Error("beginner should not be at least advanced")
	}
	if !SkillLevelAtLeast(SkillAdvanced, SkillAdvanced) {
		t.Error("level should be at least itself")
	}
}
