package trie

import (
	"fmt"
	"runtime"
	"testing"
)

var memPrefixes = []string{
	"a", "ab", "abc", "abcd",
	"h", "he", "hel", "hell", "hello",
	"w", "wo", "wor", "worl", "world",
	"p", "pr", "pro", "prog", "program",
	"c", "co", "com", "comp", "computer",
}

func memTrie(t *testing.T) *Trie {
	t.Helper()
	tr := newTestTrie(t)
	for _, w := range memPrefixes {
		for range len(w) {
			if err := tr.Insert(w); err != nil {
				t.Fatal(err)
			}
		}
	}
	return tr
}

func TestQueryAllocations(t *testing.T) {
	tr := memTrie(t)
	for _, c := range []Criterion{Lexicographic, Shortest, MostFrequent, All} {
		t.Run(c.String(), func(t *testing.T) {
			allocs := testing.AllocsPerRun(100, func() {
				for _, p := range memPrefixes {
					_ = tr.Autocomplete(p, c)
				}
			})
			perQuery := allocs / float64(len(memPrefixes))
			t.Logf("allocs per query = %.2f", perQuery)
			if perQuery > 16 {
				t.Errorf("excessive allocations per query: %.2f", perQuery)
			}
		})
	}
	allocs := testing.AllocsPerRun(100, func() {
		tr.Autocorrect("hallo", 2, nil)
	})
	if allocs > 8 {
		t.Errorf("Autocorrect without results to collect allocated %.0f times", allocs)
	}
}

func TestChurnReturnsToBaseline(t *testing.T) {
	cycles, opsPerCycle := 50, 200
	if testing.Short() {
		cycles = 5
	}
	tr := memTrie(t)
	baseline := tr.Stats()

	var before runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	for cycle := range cycles {
		words := make([]string, opsPerCycle)
		for i := range words {
			words[i] = fmt.Sprintf("%sq%c%c", memPrefixes[i%len(memPrefixes)], 'a'+rune(cycle%26), 'a'+rune(i%26))
			if err := tr.Insert(words[i]); err != nil {
				t.Fatal(err)
			}
		}
		for _, w := range words {
			tr.Remove(w)
		}
		if got := tr.Stats(); got != baseline {
			t.Fatalf("cycle %d: Stats() = %+v, want %+v", cycle, got, baseline)
		}
	}
	checkInvariants(t, tr)

	var after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&after)
	delta := int64(after.HeapAlloc) - int64(before.HeapAlloc)
	t.Logf("cycles=%d ops=%d heap_delta=%d bytes", cycles, cycles*opsPerCycle*2, delta)
	if delta > 1<<20 {
		t.Errorf("heap grew by %d bytes across insert/remove churn", delta)
	}
	runtime.KeepAlive(tr)
}
