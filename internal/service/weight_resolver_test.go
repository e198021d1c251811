package service

import (
	"math"
	"testing"

	"mingus-outlook/internal/domain"
)

func assertWeightInvariant(t *testing.T, w domain.DynamicWeights) {
	t.Helper()
	for _, c := range domain.Categories {
		if w.Get(c) < 0 {
			t.Fatalf("negative weight for %s: %+v", c, w)
		}
	}
	if math.Abs(w.Sum()-1) > 1e-6 {
		t.Fatalf("weights sum to %v: %+v", w.Sum(), w)
	}
}

func TestComputeWeights_Invariant(t *testing.T) {
	r := NewWeightResolver(nil)
	statuses := []domain.RelationshipStatus{
		domain.RelationshipSingleCareerFocused,
		domain.RelationshipSingleLooking,
		domain.RelationshipDating,
		domain.RelationshipEarlyRelationship,
		domain.RelationshipCommitted,
		domain.RelationshipEngaged,
		domain.RelationshipMarried,
		domain.RelationshipComplicated,
		"",
		"unknown",
	}
	scores := []int{0, 1, 39, 40, 60, 100, -5, 250}
	moods := []int{0, 1, 2, 3, 5}
	for _, status := range statuses {
		for _, fin := range scores {
			for _, well := range scores {
				for _, mood := range moods {
					a := domain.ActivitySnapshot{
						FinancialScore:    fin,
						WellnessScore:     well,
						RelationshipScore: fin,
						CareerScore:       well,
						MoodScore:         mood,
					}
					assertWeightInvariant(t, r.ComputeWeights(status, a))
				}
			}
		}
	}
}

func TestComputeWeights_BaseTables(t *testing.T) {
	r := NewWeightResolver(nil)
	w := r.ComputeWeights(domain.RelationshipSingleCareerFocused, domain.ActivitySnapshot{})
	if math.Abs(w.Financial-0.40) > 1e-9 || math.Abs(w.Relationship-0.10) > 1e-9 {
		t.Fatalf("unexpected base weights: %+v", w)
	}
	w = r.ComputeWeights(domain.RelationshipMarried, domain.ActivitySnapshot{})
	if math.Abs(w.Financial-0.35) > 1e-9 || math.Abs(w.Relationship-0.30) > 1e-9 || math.Abs(w.Career-0.15) > 1e-9 {
		t.Fatalf("unexpected married weights: %+v", w)
	}
}

func TestComputeWeights_UnknownStatusUsesDefault(t *testing.T) {
	w := NewWeightResolver(nil).ComputeWeights("astronaut", domain.ActivitySnapshot{})
	if w != DefaultWeights {
		t.Fatalf("expected default weights, got %+v", w)
	}
	if _, ok := BaseWeights("astronaut"); ok {
		t.Fatalf("expected unknown status")
	}
}

func TestComputeWeights_LowWellnessNudgesUp(t *testing.T) {
	r := NewWeightResolver(nil)
	base := r.ComputeWeights(domain.RelationshipMarried, domain.ActivitySnapshot{WellnessScore: 70})
	low := r.ComputeWeights(domain.RelationshipMarried, domain.ActivitySnapshot{WellnessScore: 20})
	if math.Abs(low.Wellness-(base.Wellness+weightNudge)) > 1e-9 {
		t.Fatalf("expected wellness +%v, base %+v low %+v", weightNudge, base, low)
	}
	for _, c := range []domain.Category{domain.CategoryFinancial, domain.CategoryRelationship, domain.CategoryCareer} {
		if low.Get(c) >= base.Get(c) {
			t.Fatalf("expected %s to shrink, base %+v low %+v", c, base, low)
		}
	}
	// Proporcional: la razon entre las otras categorias se mantiene.
	if math.Abs(low.Financial/low.Career-base.Financial/base.Career) > 1e-9 {
		t.Fatalf("expected proportional borrowing, base %+v low %+v", base, low)
	}
	assertWeightInvariant(t, low)
}

func TestComputeWeights_LowMoodNudgesWellness(t *testing.T) {
	r := NewWeightResolver(nil)
	base := r.ComputeWeights(domain.RelationshipDating, domain.ActivitySnapshot{MoodScore: 4})
	low := r.ComputeWeights(domain.RelationshipDating, domain.ActivitySnapshot{MoodScore: 1})
	if low.Wellness <= base.Wellness {
		t.Fatalf("expected low mood to raise wellness, base %+v low %+v", base, low)
	}
}

func TestComputeWeights_Deterministic(t *testing.T) {
	r := NewWeightResolver(nil)
	a := domain.ActivitySnapshot{FinancialScore: 30, WellnessScore: 10, CareerScore: 90, MoodScore: 2}
	first := r.ComputeWeights(domain.RelationshipEngaged, a)
	for i := 0; i < 10; i++ {
		if got := r.ComputeWeights(domain.RelationshipEngaged, a); got != first {
			t.Fatalf("expected deterministic output, got %+v vs %+v", got, first)
		}
	}
}

func TestRankedCategories(t *testing.T) {
	got := rankedCategories(domain.DynamicWeights{Financial: 0.4, Wellness: 0.25, Relationship: 0.1, Career: 0.25})
	want := []domain.Category{domain.CategoryFinancial, domain.CategoryWellness, domain.CategoryCareer, domain.CategoryRelationship}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	got = rankedCategories(DefaultWeights)
	for i, c := range domain.Categories {
		if got[i] != c {
			t.Fatalf("expected canonical order on ties, got %v", got)
		}
	}
}
