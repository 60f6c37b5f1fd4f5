package baseline

import (
	"math"
	"testing"
	"time"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
)

const epsilon = 1e-9

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func vec(day int, memory float64) cognitive.MetricVector {
	s := cognitive.Scores{
		Coherence:       0.8,
		Clarity:         0.7,
		LexicalRichness: 0.6,
		Memory:          memory,
		Emotion:         0.5,
		Orientation:     0.9,
		Reasoning:       0.75,
		Attention:       0.65,
	}
	return cognitive.MetricVector{
		PatientID:   "p1",
		Scores:      s,
		GlobalScore: cognitive.GlobalScore(s),
		Lexical:     cognitive.Lexical{UniqueWords: float64(10 * day), TotalWords: 100},
		AnalyzedAt:  t0.AddDate(0, 0, day),
	}
}

func TestCompute_NotEstablished(t *testing.T) {
	for n := 0; n < Size; n++ {
		records := make([]cognitive.MetricVector, 0, n)
		for i := 0; i < n; i++ {
			records = append(records, vec(i, 0.9))
		}
		if _, ok := Compute(records); ok {
			t.Errorf("Compute(%d records) established, want not established", n)
		}
	}
}

func TestCompute_MemoryScenario(t *testing.T) {
	records := []cognitive.MetricVector{vec(0, 0.9), vec(1, 0.85), vec(2, 0.95)}

	b, ok := Compute(records)
	if !ok {
		t.Fatal("Compute() not established with 3 records")
	}
	if math.Abs(b.Scores.Memory-0.9) > epsilon {
		t.Errorf("Memory = %v, want 0.9", b.Scores.Memory)
	}
	if math.Abs(b.Lexical.UniqueWords-10) > epsilon {
		t.Errorf("UniqueWords = %v, want 10", b.Lexical.UniqueWords)
	}
	if !b.IsBaselineMember {
		t.Error("baseline vector should be flagged as baseline member")
	}
	if b.PatientID != "p1" {
		t.Errorf("PatientID = %q, want p1", b.PatientID)
	}
}

func TestCompute_FrozenAfterThree(t *testing.T) {
	records := []cognitive.MetricVector{vec(0, 0.9), vec(1, 0.85), vec(2, 0.95)}
	first, _ := Compute(records)

	for i := 3; i < 10; i++ {
		records = append(records, vec(i, 0.1))
		got, ok := Compute(records)
		if !ok {
			t.Fatalf("Compute() not established with %d records", len(records))
		}
		if got.Scores != first.Scores {
			t.Errorf("after %d records Scores = %+v, want %+v", len(records), got.Scores, first.Scores)
		}
		if got.GlobalScore != first.GlobalScore {
			t.Errorf("after %d records GlobalScore = %v, want %v", len(records), got.GlobalScore, first.GlobalScore)
		}
	}
}

func TestCompute_SortsByAnalyzedAt(t *testing.T) {
	// Latest record first; the 0.1 session must not join the baseline.
	records := []cognitive.MetricVector{vec(9, 0.1), vec(2, 0.95), vec(0, 0.9), vec(1, 0.85)}

	b, ok := Compute(records)
	if !ok {
		t.Fatal("Compute() not established")
	}
	if math.Abs(b.Scores.Memory-0.9) > epsilon {
		t.Errorf("Memory = %v, want 0.9", b.Scores.Memory)
	}
	if !b.AnalyzedAt.Equal(t0.AddDate(0, 0, 2)) {
		t.Errorf("AnalyzedAt = %v, want third session time", b.AnalyzedAt)
	}
}

func TestCompute_RecomputesGlobalScore(t *testing.T) {
	records := []cognitive.MetricVector{vec(0, 0.9), vec(1, 0.85), vec(2, 0.95)}
	for i := range records {
		records[i].GlobalScore = 1 // stored value must be ignored
	}

	b, _ := Compute(records)
	want := cognitive.GlobalScore(b.Scores)
	if b.GlobalScore != want {
		t.Errorf("GlobalScore = %v, want recomputed %v", b.GlobalScore, want)
	}
}

func TestEarliest_StableOnTies(t *testing.T) {
	a := vec(0, 0.1)
	a.ID = "a"
	b := vec(0, 0.2)
	b.ID = "b"
	c := vec(0, 0.3)
	c.ID = "c"

	got := Earliest([]cognitive.MetricVector{a, b, c}, 2)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("Earliest() ids = %v, want [a b]", ids(got))
	}
}

func TestAggregate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if _, ok := Aggregate(nil); ok {
			t.Error("Aggregate(nil) ok = true, want false")
		}
	})

	t.Run("single record unchanged", func(t *testing.T) {
		r := vec(0, 0.42)
		r.GlobalScore = 77
		got, ok := Aggregate([]cognitive.MetricVector{r})
		if !ok {
			t.Fatal("Aggregate() ok = false")
		}
		if got.Scores != r.Scores {
			t.Errorf("Scores = %+v, want %+v", got.Scores, r.Scores)
		}
		if got.Lexical != r.Lexical {
			t.Errorf("Lexical = %+v, want %+v", got.Lexical, r.Lexical)
		}
		if got.GlobalScore != 77 {
			t.Errorf("GlobalScore = %v, want 77", got.GlobalScore)
		}
	})

	t.Run("averages stored global scores", func(t *testing.T) {
		a := vec(0, 0.9)
		a.GlobalScore = 80
		b := vec(1, 0.5)
		b.GlobalScore = 61
		got, _ := Aggregate([]cognitive.MetricVector{a, b})
		if math.Abs(got.GlobalScore-70.5) > epsilon {
			t.Errorf("GlobalScore = %v, want 70.5", got.GlobalScore)
		}
		if math.Abs(got.Scores.Memory-0.7) > epsilon {
			t.Errorf("Memory = %v, want 0.7", got.Scores.Memory)
		}
	})
}

func ids(vs []cognitive.MetricVector) []string {
	out := make([]string, len(vs))
	for i := range vs {
		out[i] = vs[i].ID
	}
	return out
}
