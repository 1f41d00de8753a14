package benchmarks

import (
	"strconv"
	"testing"

	"github.com/randalmurphal/waitlist/pkg/waitlist"
)

func name(i int) string {
	return "patient-" + strconv.Itoa(i)
}

// populate adds n waiting names and treats every other one.
func populate(n int) *waitlist.Registry {
	r := waitlist.New()
	for i := 0; i < n; i++ {
		r.Add(name(i))
	}
	for i := 0; i < n; i += 2 {
		r.Treat(name(i), waitlist.NewDate(2020+i%6, 1+i%12, 1+i%28))
	}
	return r
}

// BenchmarkAdd measures appending to the waiting list.
func BenchmarkAdd(b *testing.B) {
	r := waitlist.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Add("p")
	}
}

// BenchmarkAdd_Parallel measures append throughput under lock contention.
func BenchmarkAdd_Parallel(b *testing.B) {
	r := waitlist.New()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			r.Add("p")
		}
	})
}

// BenchmarkTreat_Head measures treating the first waiting record.
func BenchmarkTreat_Head(b *testing.B) {
	r := waitlist.New()
	for i := 0; i < b.N; i++ {
		r.Add("p")
	}
	date := waitlist.NewDate(2025, 1, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Treat("p", date)
	}
}

// BenchmarkStatus_Miss_1000 scans both lists of a 1000-record registry.
func BenchmarkStatus_Miss_1000(b *testing.B) {
	r := populate(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Status("absent")
	}
}

// BenchmarkStatus_Parallel_1000 measures concurrent lookups sharing the read lock.
func BenchmarkStatus_Parallel_1000(b *testing.B) {
	r := populate(1000)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = r.Status(name(i % 1000))
			i++
		}
	})
}

// BenchmarkWaiting_1000 measures snapshot copies of a 1000-name waiting list.
func BenchmarkWaiting_1000(b *testing.B) {
	r := populate(2000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Waiting()
	}
}

// BenchmarkPurge_1000 measures a purge pass over 1000 treated records that
// removes nothing.
func BenchmarkPurge_1000(b *testing.B) {
	r := populate(2000)
	cutoff := waitlist.NewDate(1900, 1, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Purge(cutoff)
	}
}

// BenchmarkMixed_Parallel interleaves writers and readers.
func BenchmarkMixed_Parallel(b *testing.B) {
	r := populate(500)
	date := waitlist.NewDate(2025, 1, 1)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			switch i % 4 {
			case 0:
				r.Add(name(i))
			case 1:
				r.Treat(name(i-1), date)
			case 2:
				_, _ = r.Status(name(i))
			case 3:
				_ = r.Waiting()
			}
			i++
		}
	})
}
