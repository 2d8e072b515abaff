package executor

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"unsafe"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	idx    *index.MemoryIndex
	exec   *Executor
	parser *parser.Parser
}

func newFixture(t *testing.T, stop string, docs map[int]string) *fixture {
	t.Helper()
	sw, err := tokenizer.ParseStopWords(stop)
	require.NoError(t, err)
	idx := index.NewMemoryIndex()
	for id, text := range docs {
		tokens, err := sw.Tokenize(text)
		require.NoError(t, err)
		require.NoError(t, idx.AddDocument(id, tokens, index.DocumentData{Rating: id}))
	}
	return &fixture{
		idx:    idx,
		exec:   New(idx, WithShardCount(7), WithWorkers(4)),
		parser: parser.New(sw),
	}
}

func unsafeData(s string) *byte { return unsafe.StringData(s) }

func all(int, index.DocumentStatus, int) bool { return true }

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("PARALLEL")
	require.NoError(t, err)
	assert.Equal(t, Parallel, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Sequential, p)

	_, err = ParsePolicy("eventually")
	assert.Error(t, err)
}

func TestFindAllScoresTFIDF(t *testing.T) {
	f := newFixture(t, "", map[int]string{
		1: "cat dog",
		2: "cat",
		3: "bird",
	})
	q, err := f.parser.Parse("cat")
	require.NoError(t, err)

	for _, policy := range []Policy{Sequential, Parallel} {
		t.Run(policy.String(), func(t *testing.T) {
			docs := f.exec.FindAll(policy, q, all)
			require.Len(t, docs, 2)
			idf := math.Log(3.0 / 2.0)
			assert.Equal(t, 1, docs[0].ID)
			assert.InDelta(t, 0.5*idf, docs[0].Relevance, 1e-12)
			assert.Equal(t, 2, docs[1].ID)
			assert.InDelta(t, idf, docs[1].Relevance, 1e-12)
		})
	}
}

func TestFindAllMinusWordsExclude(t *testing.T) {
	f := newFixture(t, "", map[int]string{
		1: "white cat city",
		2: "black dog city",
	})
	q, err := f.parser.Parse("city -cat")
	require.NoError(t, err)

	for _, policy := range []Policy{Sequential, Parallel} {
		docs := f.exec.FindAll(policy, q, all)
		require.Len(t, docs, 1, policy.String())
		assert.Equal(t, 2, docs[0].ID)
	}
}

func TestFindAllAppliesPredicate(t *testing.T) {
	f := newFixture(t, "", map[int]string{
		1: "cat",
		2: "cat",
		3: "cat",
	})
	q, err := f.parser.Parse("cat")
	require.NoError(t, err)
	even := func(id int, _ index.DocumentStatus, _ int) bool { return id%2 == 0 }

	for _, policy := range []Policy{Sequential, Parallel} {
		docs := f.exec.FindAll(policy, q, even)
		require.Len(t, docs, 1)
		assert.Equal(t, 2, docs[0].ID)
		assert.Equal(t, 2, docs[0].Rating)
	}
}

func TestFindAllUnknownWordsContributeNothing(t *testing.T) {
	f := newFixture(t, "", map[int]string{1: "cat"})
	q, err := f.parser.Parse("unicorn -dragon")
	require.NoError(t, err)
	assert.Empty(t, f.exec.FindAll(Sequential, q, all))
	assert.Empty(t, f.exec.FindAll(Parallel, q, all))
}

func TestMatch(t *testing.T) {
	f := newFixture(t, "and", map[int]string{
		1: "small cat",
		2: "big dog",
		3: "big cat and small dog",
	})

	canonical, err := f.parser.Parse("small cat big dog")
	require.NoError(t, err)
	raw, err := f.parser.ParseRaw("small cat big dog cat small")
	require.NoError(t, err)

	assert.Equal(t, []string{"cat", "small"}, f.exec.Match(Sequential, canonical, 1).Words)
	assert.Equal(t, []string{"cat", "small"}, f.exec.Match(Parallel, raw, 1).Words)
	assert.Equal(t, []string{"big", "cat", "dog", "small"}, f.exec.Match(Parallel, raw, 3).Words)

	minus, err := f.parser.Parse("cat -dog")
	require.NoError(t, err)
	got := f.exec.Match(Sequential, minus, 3)
	assert.NotNil(t, got.Words)
	assert.Empty(t, got.Words)
	assert.Empty(t, f.exec.Match(Parallel, minus, 3).Words)
}

func TestMatchReturnsInternedWords(t *testing.T) {
	f := newFixture(t, "", map[int]string{1: "cat"})
	q, err := f.parser.Parse("cat")
	require.NoError(t, err)

	words := f.exec.Match(Sequential, q, 1).Words
	require.Len(t, words, 1)
	stored, ok := f.idx.Canonical("cat")
	require.True(t, ok)
	assert.Same(t, unsafeData(stored), unsafeData(words[0]))
}

func TestSequentialAndParallelAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vocab := make([]string, 40)
	for i := range vocab {
		vocab[i] = fmt.Sprintf("w%02d", i)
	}
	docs := make(map[int]string)
	for id := 0; id < 300; id++ {
		n := 1 + rng.Intn(12)
		text := ""
		for i := 0; i < n; i++ {
			text += vocab[rng.Intn(len(vocab))] + " "
		}
		docs[id] = text
	}
	f := newFixture(t, "w00 w01", docs)

	for i := 0; i < 50; i++ {
		text := ""
		for j := 0; j < 6; j++ {
			if rng.Intn(4) == 0 {
				text += "-"
			}
			text += vocab[rng.Intn(len(vocab))] + " "
		}
		q, err := f.parser.Parse(text)
		require.NoError(t, err)

		seq := ranker.Rank(f.exec.FindAll(Sequential, q, all), 0)
		par := ranker.Rank(f.exec.FindAll(Parallel, q, all), 0)
		if diff := cmp.Diff(seq, par, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Fatalf("query %q: sequential and parallel differ (-seq +par):\n%s", text, diff)
		}

		raw, err := f.parser.ParseRaw(text)
		require.NoError(t, err)
		for id := 0; id < 300; id += 17 {
			assert.Equal(t, f.exec.Match(Sequential, q, id).Words, f.exec.Match(Parallel, raw, id).Words)
		}
	}
}
