package topk

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(f float32) float32 { return f }

func TestSelect(t *testing.T) {
	x := []float32{5, 2, 9, 6, 4}

	assert.Empty(t, Select(x, 0, identity))
	assert.Equal(t, []float32{9, 6, 5}, Select(x, 3, identity))
	assert.Equal(t, []float32{9, 6, 5, 4, 2}, Select(x, 10, identity))
	assert.Empty(t, Select([]float32{}, 3, identity))
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	x := []float32{1, 3, 2}
	Select(x, 2, identity)
	assert.Equal(t, []float32{1, 3, 2}, x)
}

func TestTotalKeyOrdering(t *testing.T) {
	negNaN := math.Float32frombits(0xffc00000)
	posNaN := float32(math.NaN())
	ordered := []float32{
		negNaN,
		float32(math.Inf(-1)),
		-math.MaxFloat32,
		-1,
		-math.SmallestNonzeroFloat32,
		float32(math.Copysign(0, -1)),
		0,
		math.SmallestNonzeroFloat32,
		0.5,
		1,
		math.MaxFloat32,
		float32(math.Inf(1)),
		posNaN,
	}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, TotalKey(ordered[i-1]), TotalKey(ordered[i]), "index %d", i)
		assert.Equal(t, -1, Compare(ordered[i-1], ordered[i]))
	}
	assert.Equal(t, 0, Compare(0.25, 0.25))
}

func TestSelectPlacesNaNFirst(t *testing.T) {
	nan := float32(math.NaN())
	got := Select([]float32{0.2, nan, 0.9}, 2, identity)
	require.Len(t, got, 2)
	assert.True(t, math.IsNaN(float64(got[0])))
	assert.Equal(t, float32(0.9), got[1])
}

func TestSelectTies(t *testing.T) {
	type pair struct {
		name  string
		score float32
	}
	items := []pair{{"a", 0.7}, {"b", 0.7}, {"c", 0.1}, {"d", 0.7}}
	got := Select(items, 2, func(p pair) float32 { return p.score })
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, float32(0.7), p.score)
		assert.Contains(t, []string{"a", "b", "d"}, p.name)
	}
	assert.NotEqual(t, got[0].name, got[1].name)
}

func TestSelectMatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		n := rng.Intn(200) + 1
		k := rng.Intn(n + 5)
		xs := make([]float32, n)
		for i := range xs {
			xs[i] = float32(rng.NormFloat64() * 4)
		}
		sorted := append([]float32(nil), xs...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })

		got := Select(xs, k, identity)
		want := sorted[:min(k, n)]
		assert.Equal(t, want, got)
	}
}

func TestSelectMonotonicTransform(t *testing.T) {
	sigmoid := func(x float32) float32 { return float32(1 / (1 + math.Exp(-float64(x)))) }
	rng := rand.New(rand.NewSource(42))
	type logit struct {
		id int
		x  float32
	}
	for round := 0; round < 50; round++ {
		n := rng.Intn(100) + 1
		items := make([]logit, n)
		for i := range items {
			// distinct values keep the comparison free of tie permutations
			items[i] = logit{id: i, x: float32(i)*0.01 - float32(n)*0.005}
		}
		rng.Shuffle(n, func(i, j int) { items[i], items[j] = items[j], items[i] })
		k := rng.Intn(n) + 1

		byRaw := Select(items, k, func(l logit) float32 { return l.x })
		bySigmoid := Select(items, k, func(l logit) float32 { return sigmoid(l.x) })
		assert.Equal(t, byRaw, bySigmoid)
	}
}
