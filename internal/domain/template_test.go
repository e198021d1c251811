package domain

import "testing"

func TestConditionEvaluate(t *testing.T) {
	facts := Facts{
		FactFinancialScore: NumberFact(60),
		FactLocation:       TextFact("Atlanta"),
	}
	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"gt true", Condition{Field: FactFinancialScore, Op: OpGreaterThan, Value: NumberFact(50)}, true},
		{"gt boundary", Condition{Field: FactFinancialScore, Op: OpGreaterThan, Value: NumberFact(60)}, false},
		{"gte boundary", Condition{Field: FactFinancialScore, Op: OpGreaterOrEqual, Value: NumberFact(60)}, true},
		{"lt", Condition{Field: FactFinancialScore, Op: OpLessThan, Value: NumberFact(40)}, false},
		{"lte", Condition{Field: FactFinancialScore, Op: OpLessOrEqual, Value: NumberFact(60)}, true},
		{"eq number", Condition{Field: FactFinancialScore, Op: OpEqual, Value: NumberFact(60)}, true},
		{"neq number", Condition{Field: FactFinancialScore, Op: OpNotEqual, Value: NumberFact(60)}, false},
		{"eq text case insensitive", Condition{Field: FactLocation, Op: OpEqual, Value: TextFact("atlanta")}, true},
		{"neq text", Condition{Field: FactLocation, Op: OpNotEqual, Value: TextFact("Houston")}, true},
		{"text with ordering op", Condition{Field: FactLocation, Op: OpGreaterThan, Value: TextFact("A")}, false},
		{"type mismatch", Condition{Field: FactFinancialScore, Op: OpEqual, Value: TextFact("60")}, false},
		{"missing fact", Condition{Field: FactCareerScore, Op: OpGreaterOrEqual, Value: NumberFact(0)}, false},
		{"unknown op", Condition{Field: FactFinancialScore, Op: "between", Value: NumberFact(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond.Evaluate(facts); got != tt.want {
				t.Fatalf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTierOrdering(t *testing.T) {
	if !TierProfessional.AtLeast(TierMid) || !TierMid.AtLeast(TierBudget) {
		t.Fatalf("expected budget < mid_tier < professional")
	}
	if TierBudget.AtLeast(TierMid) {
		t.Fatalf("budget must not reach mid_tier")
	}
	if Tier("gold").Valid() || Tier("gold").AtLeast(TierBudget) {
		t.Fatalf("unknown tiers must not be valid")
	}
}

func TestDynamicWeightsAccessors(t *testing.T) {
	w := DynamicWeights{}.With(CategoryFinancial, 0.5).With(CategoryCareer, 0.5)
	if w.Get(CategoryFinancial) != 0.5 || w.Get(CategoryWellness) != 0 || w.Sum() != 1 {
		t.Fatalf("unexpected weights %+v", w)
	}
	if Category("travel").Valid() {
		t.Fatalf("unexpected valid category")
	}
}
