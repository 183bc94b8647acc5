package router

import (
	"sync"
	"testing"

	"genroute/internal/domain/entity"
)

func candidates(ids ...string) []entity.BackendCandidate {
	out := make([]entity.BackendCandidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, entity.BackendCandidate{ID: id})
	}
	return out
}

func TestRotated_Order(t *testing.T) {
	s := NewState()
	cands := candidates("a", "b", "c")

	tests := []struct {
		sticky int
		want   []string
	}{
		{0, []string{"a", "b", "c"}},
		{1, []string{"b", "c", "a"}},
		{2, []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		s.MarkSuccess(tt.sticky)
		rotated := s.Rotated(cands)
		for i, want := range tt.want {
			if rotated[i].ID != want {
				t.Errorf("sticky=%d: rotated[%d] = %s, want %s", tt.sticky, i, rotated[i].ID, want)
			}
		}
	}
}

func TestRotated_DoesNotMutateInput(t *testing.T) {
	s := NewState()
	s.MarkSuccess(1)
	cands := candidates("a", "b", "c")

	_ = s.Rotated(cands)

	if cands[0].ID != "a" || cands[1].ID != "b" || cands[2].ID != "c" {
		t.Error("input slice was mutated")
	}
}

func TestRotated_EmptyList(t *testing.T) {
	s := NewState()
	if got := s.Rotated(nil); got != nil {
		t.Errorf("Rotated(nil) = %v, want nil", got)
	}
}

func TestMarkSuccess_IgnoresNegative(t *testing.T) {
	s := NewState()
	s.MarkSuccess(2)
	s.MarkSuccess(-1)

	if s.Sticky() != 2 {
		t.Errorf("Sticky() = %d, want 2", s.Sticky())
	}
}

func TestMarkSuccess_ConcurrentLastWriterWins(t *testing.T) {
	s := NewState()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			s.MarkSuccess(idx % 4)
		}(i)
	}
	wg.Wait()

	// Whatever write landed last, the index must be one that was written.
	if got := s.Sticky(); got < 0 || got > 3 {
		t.Errorf("Sticky() = %d, want 0..3", got)
	}
}
