package fn

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

// --- slices ---

func TestFilter(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6}
	got := Filter(in, func(n int) bool { return n%2 == 0 })
	if len(got) != 3 || got[0] != 2 || got[1] != 4 || got[2] != 6 {
		t.Fatalf("got %v", got)
	}
	if len(in) != 6 || in[1] != 2 {
		t.Fatal("input mutated")
	}
}

func TestFilterEmptyIsNonNil(t *testing.T) {
	got := Filter([]int{1, 3}, func(n int) bool { return n%2 == 0 })
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if got := Filter[int](nil, func(int) bool { return true }); got == nil {
		t.Fatal("expected non-nil for nil input")
	}
}

func TestAnd(t *testing.T) {
	even := Predicate[int](func(n int) bool { return n%2 == 0 })
	big := Predicate[int](func(n int) bool { return n > 3 })

	p := And(even, big)
	for n, want := range map[int]bool{2: false, 4: true, 5: false, 6: true} {
		if p(n) != want {
			t.Errorf("And(%d) = %v, want %v", n, !want, want)
		}
	}
	if !And[int]()(42) {
		t.Error("empty And should accept")
	}
}

func TestTake(t *testing.T) {
	in := []int{1, 2, 3, 4}
	if got := Take(in, 2); len(got) != 2 || got[1] != 2 {
		t.Fatalf("Take 2 = %v", got)
	}
	if got := Take(in, 10); len(got) != 4 {
		t.Fatalf("Take 10 = %v", got)
	}
	if got := Take(in, -1); got == nil || len(got) != 0 {
		t.Fatalf("Take -1 = %#v", got)
	}
	got := Take(in, 2)
	got[0] = 99
	if in[0] != 1 {
		t.Fatal("Take must copy")
	}
}

// --- Result ---

func TestOkAndErr(t *testing.T) {
	r := Ok(42)
	if !r.IsOk() || r.IsErr() {
		t.Fatal("Ok should be ok")
	}
	if v, err := r.Unwrap(); v != 42 || err != nil {
		t.Fatal("wrong unwrap")
	}

	e := Err[int](errors.New("fail"))
	if e.IsOk() || !e.IsErr() {
		t.Fatal("Err should be err")
	}
	if _, err := e.Unwrap(); err == nil || err.Error() != "fail" {
		t.Fatal("Err should carry its error")
	}
}

func TestFromPair(t *testing.T) {
	if !FromPair(1, nil).IsOk() {
		t.Fatal("expected ok")
	}
	if !FromPair(0, errors.New("x")).IsErr() {
		t.Fatal("expected err")
	}
}

// --- stages ---

func TestThen(t *testing.T) {
	double := MapStage(func(n int) int { return n * 2 })
	str := MapStage(strconv.Itoa)
	v, err := Then(double, str)(context.Background(), 21).Unwrap()
	if err != nil || v != "42" {
		t.Fatalf("got %q, %v", v, err)
	}
}

func TestThenShortCircuits(t *testing.T) {
	called := false
	fail := Stage[int, int](func(context.Context, int) Result[int] { return Err[int](errors.New("boom")) })
	next := Stage[int, int](func(_ context.Context, n int) Result[int] {
		called = true
		return Ok(n)
	})

	r := Then(fail, next)(context.Background(), 1)
	if r.IsOk() || called {
		t.Fatal("second stage must not run after an error")
	}
}

func TestTracedStage(t *testing.T) {
	ok := TracedStage("ok", MapStage(func(n int) int { return n + 1 }))
	if v, _ := ok(context.Background(), 1).Unwrap(); v != 2 {
		t.Fatalf("got %d", v)
	}
	bad := TracedStage("bad", Stage[int, int](func(context.Context, int) Result[int] { return Err[int](errors.New("nope")) }))
	if bad(context.Background(), 1).IsOk() {
		t.Fatal("expected error to pass through")
	}
}

// --- Retry ---

func TestRetrySucceedsEventually(t *testing.T) {
	calls := 0
	opts := RetryOpts{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond}
	r := Retry(context.Background(), opts, func(context.Context) Result[string] {
		calls++
		if calls < 3 {
			return Err[string](errors.New("not yet"))
		}
		return Ok("done")
	})
	if v, err := r.Unwrap(); err != nil || v != "done" || calls != 3 {
		t.Fatalf("got %q, %v after %d calls", v, err, calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	calls := 0
	opts := RetryOpts{MaxAttempts: 2, InitialWait: time.Millisecond, Jitter: true}
	r := Retry(context.Background(), opts, func(context.Context) Result[int] {
		calls++
		return Err[int](errors.New("always"))
	})
	if r.IsOk() || calls != 2 {
		t.Fatalf("expected 2 failed calls, got %d", calls)
	}
}

func TestRetryZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	Retry(context.Background(), RetryOpts{}, func(context.Context) Result[int] {
		calls++
		return Err[int](errors.New("x"))
	})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRetryRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := RetryOpts{MaxAttempts: 5, InitialWait: time.Hour}
	r := Retry(ctx, opts, func(context.Context) Result[int] { return Err[int](errors.New("x")) })
	if _, err := r.Unwrap(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
