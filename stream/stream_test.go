package stream

import "testing"

func TestNextAdvances(t *testing.T) {
	s := OfSlice([]int{1, 2, 3})
	var got []int
	for {
		v, ok := s.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	s := OfSlice([]int{1, 2})
	v, ok := s.Peek()
	if !ok || v != 1 {
		t.Fatalf("peek = %v, %v", v, ok)
	}
	v, ok = s.Peek()
	if !ok || v != 1 {
		t.Fatalf("second peek = %v, %v", v, ok)
	}
	v, ok = s.Next()
	if !ok || v != 1 {
		t.Fatalf("next after peek = %v, %v", v, ok)
	}
	v, ok = s.Next()
	if !ok || v != 2 {
		t.Fatalf("next = %v, %v", v, ok)
	}
	_, ok = s.Next()
	if ok {
		t.Fatalf("expected end")
	}
}

func TestPush(t *testing.T) {
	s := OfSlice([]int{1, 2})
	v, _ := s.Next()
	s.Push(v)
	v, ok := s.Next()
	if !ok || v != 1 {
		t.Fatalf("next after push = %v, %v", v, ok)
	}
}

func TestMapFilter(t *testing.T) {
	s := OfSlice([]int{1, 2, 3, 4})
	doubled := Map(s, func(v int) int { return v * 2 })
	evens := Filter(doubled, func(v int) bool { return v%4 == 0 })
	got := ToSlice(evens)
	if len(got) != 2 || got[0] != 4 || got[1] != 8 {
		t.Fatalf("got %v", got)
	}
}

func TestFold(t *testing.T) {
	s := OfSlice([]int{1, 2, 3})
	sum := Fold(s, 0, func(acc, v int) int { return acc + v })
	if sum != 6 {
		t.Fatalf("sum = %d", sum)
	}
}

func TestFunc(t *testing.T) {
	s := Func(func(yield func(int) bool) {
		for i := 0; i < 3; i++ {
			if !yield(i) {
				return
			}
		}
	})
	got := ToSlice(s)
	if len(got) != 3 || got[2] != 2 {
		t.Fatalf("got %v", got)
	}
}

func TestFuncEarlyStop(t *testing.T) {
	ran := 0
	s := Func(func(yield func(int) bool) {
		for i := 0; i < 100; i++ {
			ran++
			if !yield(i) {
				return
			}
		}
	})
	v, _ := s.Next()
	if v != 0 {
		t.Fatalf("v = %d", v)
	}
	// s is abandoned after one item without draining; Func only calls
	// iter.Pull's stop once the generator is exhausted, so here stop is
	// never called.
}

func TestFailPanicsOnNext(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic")
		}
	}()
	s := Fail[int](errBoom)
	s.Next()
}

var errBoom = errBoomT{}

type errBoomT struct{}

func (errBoomT) Error() string { return "boom" }
