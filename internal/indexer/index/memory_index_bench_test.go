package index

import (
	"fmt"
	"strings"
	"testing"
)

var benchTokens = strings.Fields("this is a benchmark document with several terms for testing the indexing performance of our memory index")

func loadedIndex(b *testing.B, n int) *MemoryIndex {
	b.Helper()
	mi := NewMemoryIndex()
	for id := 0; id < n; id++ {
		tokens := append([]string{fmt.Sprintf("unique%d", id)}, benchTokens...)
		if err := mi.AddDocument(id, tokens, DocumentData{Status: StatusActual}); err != nil {
			b.Fatal(err)
		}
	}
	return mi
}

// BenchmarkMemoryIndexAdd measures per-document insert throughput.
func BenchmarkMemoryIndexAdd(b *testing.B) {
	mi := NewMemoryIndex()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := mi.AddDocument(i, benchTokens, DocumentData{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMemoryIndexPostings(b *testing.B) {
	mi := loadedIndex(b, 10000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		postings, _ := mi.Postings("benchmark")
		_ = postings
	}
}

// BenchmarkMemoryIndexRemove compares sequential and parallel removal of
// documents from a 10 000 document index.
func BenchmarkMemoryIndexRemove(b *testing.B) {
	for _, parallel := range []bool{false, true} {
		b.Run(fmt.Sprintf("parallel_%t", parallel), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				mi := loadedIndex(b, 1000)
				b.StartTimer()
				for id := 0; id < 1000; id += 10 {
					if parallel {
						mi.RemoveDocumentParallel(id, 0)
					} else {
						mi.RemoveDocument(id)
					}
				}
			}
		})
	}
}
