package cleanup

import "testing"

func TestPhaseFor(t *testing.T) {
	tests := []struct {
		category Category
		want     int
	}{
		{CategoryTypes, 1},
		{CategoryDatabase, 2},
		{CategoryAuthentication, 2},
		{CategoryMiddleware, 2},
		{CategoryErrorHandling, 2},
		{CategoryServices, 3},
		{CategoryAPIRoutes, 4},
		{CategoryComponents, 5},
		{CategoryGeneral, 6},
		{Category("styling"), 6},
	}
	for _, tt := range tests {
		if got := PhaseFor(tt.category); got != tt.want {
			t.Errorf("PhaseFor(%q) = %d, want %d", tt.category, got, tt.want)
		}
	}
}

func TestPhaseNameAndDescription(t *testing.T) {
	if got := PhaseName(1); got != "Foundation" {
		t.Errorf("PhaseName(1) = %q", got)
	}
	if got := PhaseName(4); got != "API Routes" {
		t.Errorf("PhaseName(4) = %q", got)
	}
	if got := PhaseName(6); got != "Polish" {
		t.Errorf("PhaseName(6) = %q", got)
	}
	if got := PhaseName(0); got != "" {
		t.Errorf("PhaseName(0) = %q, want empty", got)
	}
	if got := PhaseDescription(7); got != "" {
		t.Errorf("PhaseDescription(7) = %q, want empty", got)
	}
	for n := 1; n <= NumPhases; n++ {
		if PhaseDescription(n) == "" {
			t.Errorf("PhaseDescription(%d) is empty", n)
		}
	}
}

func TestGroupIntoPhases(t *testing.T) {
	ordered := []CleanupTask{
		task("t1", CategoryTypes, RiskLow),
		task("ui2", CategoryComponents, RiskHigh),
		task("db", CategoryDatabase, RiskLow),
		task("ui1", CategoryComponents, RiskLow),
	}

	phases := GroupIntoPhases(ordered)
	if len(phases) != 3 {
		t.Fatalf("len(phases) = %d, want 3", len(phases))
	}

	wantNumbers := []int{1, 2, 5}
	for i, p := range phases {
		if p.PhaseNumber != wantNumbers[i] {
			t.Errorf("phases[%d].PhaseNumber = %d, want %d", i, p.PhaseNumber, wantNumbers[i])
		}
		if p.PhaseName != PhaseName(p.PhaseNumber) {
			t.Errorf("phases[%d].PhaseName = %q", i, p.PhaseName)
		}
	}

	components := phases[2]
	if len(components.Tasks) != 2 || components.Tasks[0].ID != "ui2" || components.Tasks[1].ID != "ui1" {
		t.Errorf("components tasks = %v, want [ui2 ui1] in scheduled order", ids(components.Tasks))
	}
}

func TestGroupIntoPhases_Empty(t *testing.T) {
	phases := GroupIntoPhases(nil)
	if phases == nil || len(phases) != 0 {
		t.Errorf("GroupIntoPhases(nil) = %#v, want empty non-nil", phases)
	}
}
