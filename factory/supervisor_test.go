package factory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/utkarsh5026/bootfactory/internal/algorithms"
)

func instantWork(completions *atomic.Int64) WorkFunc {
	return func(ctx context.Context, workerID int, d time.Duration) error {
		completions.Add(1)
		return nil
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		field string
	}{
		{
			name:  "negative worker count",
			opts:  []Option{WithWorkerCount(-1)},
			field: "worker_count",
		},
		{
			name:  "zero time unit",
			opts:  []Option{WithTimeUnit(0)},
			field: "unit",
		},
		{
			name:  "empty duration set",
			opts:  []Option{WithDurations(algorithms.DurationRandomChoice)},
			field: "durations",
		},
		{
			name:  "negative duration",
			opts:  []Option{WithDurations(algorithms.DurationRandomChoice, 1, -3)},
			field: "durations",
		},
		{
			name:  "negative unit limit",
			opts:  []Option{WithUnitLimit(-5)},
			field: "unit_limit",
		},
		{
			name:  "unit limit without workers",
			opts:  []Option{WithWorkerCount(0), WithUnitLimit(10)},
			field: "unit_limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sup, err := New(tt.opts...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if sup != nil {
				t.Error("supervisor should be nil on error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v should wrap ErrInvalidConfig", err)
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error %v should be a *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	sup, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if len(sup.workers) != 1 {
		t.Errorf("worker count = %d, want 1", len(sup.workers))
	}
	if sup.conf.unit != time.Second {
		t.Errorf("unit = %v, want 1s", sup.conf.unit)
	}
	if _, ok := sup.policy.(algorithms.DriftCorrected); !ok {
		t.Errorf("policy = %T, want DriftCorrected", sup.policy)
	}
	if sup.Elapsed() != 0 {
		t.Errorf("Elapsed() before Run = %v, want 0", sup.Elapsed())
	}
}

func TestNew_DurationStrategyOverridesSet(t *testing.T) {
	strategy := algorithms.NewDurationStrategy(algorithms.DurationFixed, []float64{7})
	sup, err := New(
		WithDurations(algorithms.DurationRandomChoice), // empty set is fine when a strategy is given
		WithDurationStrategy(strategy),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := sup.durations.Next(); got != 7 {
		t.Errorf("durations.Next() = %v, want 7", got)
	}
}

func TestSupervisor_NoLostIncrements(t *testing.T) {
	for _, workers := range []int{1, 4, 16, 64} {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			const limit = 5000

			var completions atomic.Int64
			var mu sync.Mutex
			seen := make(map[int64]int)

			sup, err := New(
				WithWorkerCount(workers),
				WithTimeUnit(time.Millisecond),
				WithUnitLimit(limit),
				WithWorkFunc(instantWork(&completions)),
				WithOnUnitDone(func(workerID int, count int64) {
					mu.Lock()
					seen[count]++
					mu.Unlock()
				}),
			)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := sup.Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if ctx.Err() != nil {
				t.Fatal("run hit the test timeout instead of the unit limit")
			}

			if got := sup.Counter().Read(); got != limit {
				t.Errorf("counter = %d, want %d", got, limit)
			}
			if got := completions.Load(); got != limit {
				t.Errorf("completions = %d, want %d", got, limit)
			}

			var total int64
			for _, st := range sup.Stats() {
				total += st.Completed
			}
			if total != limit {
				t.Errorf("sum of worker stats = %d, want %d", total, limit)
			}

			// Every counter value from 1 to limit was produced exactly once.
			if len(seen) != limit {
				t.Errorf("distinct counts = %d, want %d", len(seen), limit)
			}
			for v, n := range seen {
				if v < 1 || v > limit || n != 1 {
					t.Errorf("count %d seen %d times", v, n)
				}
			}
		})
	}
}

func TestSupervisor_UnitLimitEmitsFinalSample(t *testing.T) {
	var samples []Sample
	var completions atomic.Int64

	sup, err := New(
		WithWorkerCount(3),
		WithTimeUnit(time.Millisecond),
		WithUnitLimit(200),
		WithWorkFunc(instantWork(&completions)),
		WithSink(SinkFunc(func(s Sample) {
			samples = append(samples, s)
		})),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := sup.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(samples) == 0 {
		t.Fatal("expected at least one sample")
	}
	last := samples[len(samples)-1]
	if last.Count != 200 {
		t.Errorf("final sample count = %d, want 200", last.Count)
	}
	for i, s := range samples {
		if s.Tick != i {
			t.Errorf("sample %d has tick %d", i, s.Tick)
		}
	}
}

func TestSupervisor_CounterNonDecreasingAcrossTicks(t *testing.T) {
	var samples []Sample

	sup, err := New(
		WithWorkerCount(8),
		WithTimeUnit(2*time.Millisecond),
		WithSink(SinkFunc(func(s Sample) {
			samples = append(samples, s)
		})),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := sup.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(samples) < 2 {
		t.Fatalf("got %d samples, want several", len(samples))
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].Count < samples[i-1].Count {
			t.Errorf("count decreased at tick %d: %d -> %d", i, samples[i-1].Count, samples[i].Count)
		}
		if samples[i].Elapsed < samples[i-1].Elapsed {
			t.Errorf("elapsed went backwards at tick %d", i)
		}
	}
	if final := sup.Counter().Read(); samples[len(samples)-1].Count > final {
		t.Errorf("sampled count %d exceeds final count %d", samples[len(samples)-1].Count, final)
	}
}

func TestSupervisor_ZeroWorkers(t *testing.T) {
	clock := newFakeClock(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var samples []Sample
	sup, err := New(
		WithWorkerCount(0),
		WithClock(clock),
		WithSink(SinkFunc(func(s Sample) {
			samples = append(samples, s)
			if len(samples) == 10 {
				cancel()
			}
		})),
	)
	if err != nil {
		t.Fatalf("New() with zero workers should be valid, got %v", err)
	}

	if err := sup.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(samples) != 10 {
		t.Fatalf("got %d samples, want 10", len(samples))
	}
	for _, s := range samples {
		if s.Count != 0 {
			t.Errorf("tick %d count = %d, want 0", s.Tick, s.Count)
		}
	}
	if len(sup.Stats()) != 0 {
		t.Errorf("Stats() = %v, want empty", sup.Stats())
	}
}

func TestSupervisor_CancellationPromptness(t *testing.T) {
	const unit = 20 * time.Millisecond

	sup, err := New(
		WithWorkerCount(8),
		WithTimeUnit(unit),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sup.Run(ctx)
	}()

	time.Sleep(7 * unit)
	cancelledAt := time.Now()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() after cancel = %v, want nil", err)
		}
	case <-time.After(5*unit + time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	// Longest pending sleep is 5 units.
	if waited := time.Since(cancelledAt); waited > 5*unit+500*time.Millisecond {
		t.Errorf("unwinding took %v", waited)
	}

	var total int64
	for _, st := range sup.Stats() {
		total += st.Completed
	}
	if got := sup.Counter().Read(); got != total {
		t.Errorf("counter = %d, worker stats sum = %d", got, total)
	}
}

func TestSupervisor_ConcurrentReadSafety(t *testing.T) {
	const limit = 20000
	var completions atomic.Int64

	sup, err := New(
		WithWorkerCount(16),
		WithTimeUnit(time.Millisecond),
		WithUnitLimit(limit),
		WithWorkFunc(instantWork(&completions)),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	stop := make(chan struct{})
	var observers sync.WaitGroup
	for range 4 {
		observers.Go(func() {
			var prev int64
			for {
				select {
				case <-stop:
					return
				default:
				}
				v := sup.Counter().Read()
				if v < prev {
					t.Errorf("observed decrease: %d -> %d", prev, v)
					return
				}
				if v > limit {
					t.Errorf("observed %d above limit %d", v, limit)
					return
				}
				prev = v
			}
		})
	}

	if err := sup.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	close(stop)
	observers.Wait()

	if got := sup.Counter().Read(); got != limit {
		t.Errorf("counter = %d, want %d", got, limit)
	}
}

func TestSupervisor_AlreadyRunning(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once

	sup, err := New(
		WithWorkerCount(1),
		WithTimeUnit(5*time.Millisecond),
		WithSink(SinkFunc(func(Sample) {
			once.Do(func() { close(started) })
		})),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sup.Run(ctx)
	}()

	<-started
	if err := sup.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("first Run() = %v, want nil", err)
	}

	// Once stopped, the supervisor can run again and keeps its counter.
	before := sup.Counter().Read()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel2()
	if err := sup.Run(ctx2); err != nil {
		t.Errorf("rerun error = %v", err)
	}
	if sup.Counter().Read() < before {
		t.Error("counter was reset between runs")
	}
}

func TestSupervisor_AlreadyCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var samples int
	sup, err := New(
		WithWorkerCount(4),
		WithSink(SinkFunc(func(Sample) { samples++ })),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	start := time.Now()
	if err := sup.Run(ctx); err != nil {
		t.Errorf("Run() = %v, want nil", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Run with a cancelled context should return immediately")
	}
	if got := sup.Counter().Read(); got != 0 {
		t.Errorf("counter = %d, want 0", got)
	}
	if samples != 1 {
		t.Errorf("samples = %d, want only the tick 0 sample", samples)
	}
}
