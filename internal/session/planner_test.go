package session

import "testing"

func TestDecidePlan_Gate(t *testing.T) {
	tests := []struct {
		name      string
		requested Type
		built     int
		want      Type
		gated     bool
	}{
		{"below gate forces new_only", TypeWeakness, 299, TypeNewOnly, true},
		{"at gate passes through", TypeWeakness, 300, TypeWeakness, false},
		{"review below gate", TypeReviewOnly, 0, TypeNewOnly, true},
		{"standard below gate", TypeStandard, 150, TypeNewOnly, true},
		{"new_only below gate is not gated", TypeNewOnly, 10, TypeNewOnly, false},
		{"standard above gate", TypeStandard, 1200, TypeStandard, false},
		{"empty request", "", 500, TypeNewOnly, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := DecidePlan(PlanInput{Requested: tt.requested, UserLevel: 3, BuiltSentenceCount: tt.built})
			if plan.Type != tt.want {
				t.Errorf("type = %q, want %q", plan.Type, tt.want)
			}
			if plan.Gated != tt.gated {
				t.Errorf("gated = %v, want %v", plan.Gated, tt.gated)
			}
		})
	}
}

func TestDecidePlan_Limit(t *testing.T) {
	if got := DecidePlan(PlanInput{Requested: TypeNewOnly}).Limit; got != DefaultLimit {
		t.Errorf("default limit = %d, want %d", got, DefaultLimit)
	}
	if got := DecidePlan(PlanInput{Requested: TypeNewOnly, Limit: 25}).Limit; got != 25 {
		t.Errorf("limit = %d, want 25", got)
	}
	if got := DecidePlan(PlanInput{Requested: TypeWeakness, BuiltSentenceCount: 3, Limit: 7}).Limit; got != 7 {
		t.Errorf("gated limit = %d, want 7", got)
	}
}

func TestDecidePlan_LimitPassesThrough(t *testing.T) {
	for _, limit := range []int{-3, 1, 250} {
		if got := DecidePlan(PlanInput{Requested: TypeNewOnly, Limit: limit}).Limit; got != limit {
			t.Errorf("limit %d came back as %d", limit, got)
		}
	}
}

func TestGatePlanner_DefaultLimitOnly(t *testing.T) {
	p := &GatePlanner{DefaultLimit: 20}
	plan := p.DecidePlan(PlanInput{Requested: TypeReviewOnly, BuiltSentenceCount: GateSentenceCount - 1})
	if plan.Limit != 20 {
		t.Errorf("limit = %d, want configured default 20", plan.Limit)
	}
	if plan.Type != TypeNewOnly || !plan.Gated {
		t.Errorf("plan = %+v, want gated new_only regardless of planner settings", plan)
	}

	zero := &GatePlanner{}
	if got := zero.DecidePlan(PlanInput{Requested: TypeNewOnly}).Limit; got != DefaultLimit {
		t.Errorf("zero planner limit = %d, want %d", got, DefaultLimit)
	}
}

func TestNewItemLevels(t *testing.T) {
	tests := []struct {
		level    int
		min, max int
	}{
		{1, 1, 2},
		{5, 4, 6},
		{9, 8, 9},
		{0, 1, 2},
		{12, 8, 9},
	}
	for _, tt := range tests {
		got := NewItemLevels(tt.level)
		if got.Min != tt.min || got.Max != tt.max {
			t.Errorf("NewItemLevels(%d) = %+v, want [%d, %d]", tt.level, got, tt.min, tt.max)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		storage string
	}{
		{"standard", TypeStandard, "mix"},
		{"mix", TypeStandard, "mix"},
		{"weakness", TypeWeakness, "weak_focus"},
		{"weak_focus", TypeWeakness, "weak_focus"},
		{"review_only", TypeReviewOnly, "review_only"},
		{"new_only", TypeNewOnly, "new_only"},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", tt.in, err)
		}
		if got != tt.want || got.StorageName() != tt.storage {
			t.Errorf("ParseType(%q) = %q (%s)", tt.in, got, got.StorageName())
		}
	}
	if _, err := ParseType("marathon"); err == nil {
		t.Error("expected error for unknown type")
	}
	if FromClient("marathon") != TypeNewOnly || FromClient("") != TypeNewOnly {
		t.Error("unknown client types should fall back to new_only")
	}
}

func TestTypes_Described(t *testing.T) {
	for _, typ := range Types {
		if typ.Description() == "" {
			t.Errorf("%q has no description", typ)
		}
	}
}
