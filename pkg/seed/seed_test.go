package seed

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"keyword-scout/pkg/models"
)

func fixedRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

func TestNewRegistry_Validation(t *testing.T) {
	tests := []struct {
		name    string
		seeds   []models.Seed
		wantErr bool
	}{
		{"empty", nil, true},
		{"blank term", []models.Seed{{Term: " ", Weight: 1, Category: "a"}}, true},
		{"zero weight", []models.Seed{{Term: "x", Weight: 0, Category: "a"}}, true},
		{"no category", []models.Seed{{Term: "x", Weight: 1}}, true},
		{"valid", []models.Seed{{Term: "x", Weight: 1, Category: "a"}}, false},
	}

	for _, test := range tests {
		_, err := NewRegistry(test.seeds, fixedRand())
		if (err != nil) != test.wantErr {
			t.Errorf("%s: expected error=%v, got %v", test.name, test.wantErr, err)
		}
	}

	if _, err := NewRegistry(nil, nil); !errors.Is(err, ErrNoSeeds) {
		t.Errorf("Expected ErrNoSeeds, got %v", err)
	}
}

func TestDefaults_AreValid(t *testing.T) {
	r := NewDefaultRegistry(fixedRand())

	want := []string{"auto", "health insurance", "home", "medicare", "personal finance", "retirement", "small business", "taxes"}
	got := r.Categories()
	if len(got) != len(want) {
		t.Fatalf("Expected categories %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Category %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	medicare := r.ByCategory("Medicare")
	if len(medicare) == 0 {
		t.Error("Expected case-insensitive category lookup to find medicare seeds")
	}
	for _, s := range medicare {
		if s.Category != "medicare" {
			t.Errorf("Unexpected seed in medicare listing: %+v", s)
		}
	}
}

func TestSampleWeighted_DistinctAndReproducible(t *testing.T) {
	seeds := []models.Seed{
		{Term: "a", Weight: 5, Category: "x"},
		{Term: "b", Weight: 1, Category: "x"},
		{Term: "c", Weight: 1, Category: "y"},
		{Term: "d", Weight: 2, Category: "z"},
	}

	r1, _ := NewRegistry(seeds, fixedRand())
	r2, _ := NewRegistry(seeds, fixedRand())

	s1 := r1.SampleWeighted(3)
	s2 := r2.SampleWeighted(3)

	if len(s1) != 3 {
		t.Fatalf("Expected 3 seeds, got %d", len(s1))
	}
	seen := make(map[string]bool)
	for i := range s1 {
		if seen[s1[i].Term] {
			t.Errorf("Duplicate seed %s in sample", s1[i].Term)
		}
		seen[s1[i].Term] = true
		if s1[i] != s2[i] {
			t.Errorf("Same PRNG seed gave different samples: %v vs %v", s1, s2)
		}
	}

	if got := r1.SampleWeighted(10); len(got) != 4 {
		t.Errorf("Expected sample capped at 4 distinct seeds, got %d", len(got))
	}
}

func TestSampleWeighted_FavoursHeavySeeds(t *testing.T) {
	seeds := []models.Seed{
		{Term: "heavy", Weight: 20, Category: "x"},
		{Term: "light", Weight: 1, Category: "x"},
	}
	r, _ := NewRegistry(seeds, fixedRand())

	heavyFirst := 0
	for i := 0; i < 500; i++ {
		if r.SampleWeighted(1)[0].Term == "heavy" {
			heavyFirst++
		}
	}
	if heavyFirst < 400 {
		t.Errorf("Expected heavy seed to dominate, picked %d/500", heavyFirst)
	}
}

func TestSampleDiverse_OnePerCategory(t *testing.T) {
	r := NewDefaultRegistry(fixedRand())

	for i := 0; i < 50; i++ {
		sample := r.SampleDiverse(DefaultSampleSize)
		if len(sample) != DefaultSampleSize {
			t.Fatalf("Expected %d seeds, got %d", DefaultSampleSize, len(sample))
		}
		categories := make(map[string]bool)
		for _, s := range sample {
			if categories[s.Category] {
				t.Fatalf("Category %s picked twice in %v", s.Category, sample)
			}
			categories[s.Category] = true
		}
	}
}

func TestSampleDiverse_FallsBackWhenCategoriesRunOut(t *testing.T) {
	seeds := []models.Seed{
		{Term: "a1", Weight: 1, Category: "a"},
		{Term: "a2", Weight: 1, Category: "a"},
		{Term: "a3", Weight: 1, Category: "a"},
		{Term: "b1", Weight: 1, Category: "b"},
	}
	r, _ := NewRegistry(seeds, fixedRand())

	sample := r.SampleDiverse(3)
	if len(sample) != 3 {
		t.Fatalf("Expected 3 seeds, got %v", sample)
	}

	terms := make(map[string]bool)
	hasB := false
	for _, s := range sample {
		if terms[s.Term] {
			t.Errorf("Duplicate term %s", s.Term)
		}
		terms[s.Term] = true
		if strings.HasPrefix(s.Term, "b") {
			hasB = true
		}
	}
	if !hasB {
		t.Errorf("Expected category b represented, got %v", sample)
	}

	if got := r.SampleDiverse(0); len(got) != 0 {
		t.Errorf("Expected empty sample for n=0, got %v", got)
	}
}
