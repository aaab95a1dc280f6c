package domain

import "testing"

func TestNormalizeHouseType(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"new_build", HouseTypeNewBuild},
		{"NEW", HouseTypeNewBuild},
		{"新建", HouseTypeNewBuild},
		{"rebuild", HouseTypeRenovation},
		{"翻建", HouseTypeRenovation},
		{"expand", HouseTypeExpansion},
		{"修缮", HouseTypeRepair},
		{" repair ", HouseTypeRepair},
		// 未收录的值回落默认，而不是报错
		{"castle", HouseTypeNewBuild},
		{"", HouseTypeNewBuild},
	}
	for _, tc := range cases {
		if got := NormalizeHouseType(tc.in); got != tc.want {
			t.Errorf("NormalizeHouseType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeConstructionStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"in_progress", ConstructionInProgress},
		{"Under_Construction", ConstructionInProgress},
		{"施工中", ConstructionInProgress},
		{"done", ConstructionCompleted},
		{"竣工", ConstructionCompleted},
		{"stopped", ConstructionSuspended},
		{"planning", ConstructionPlanned},
		{"unknown-status", ConstructionPlanned},
		{"", ConstructionPlanned},
	}
	for _, tc := range cases {
		if got := NormalizeConstructionStatus(tc.in); got != tc.want {
			t.Errorf("NormalizeConstructionStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
