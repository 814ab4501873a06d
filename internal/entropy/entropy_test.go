package entropy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedIndex(t *testing.T) {
	weights := []float64{1, 2, 1}

	assert.Equal(t, 0, WeightedIndex(NewSequence(0.0), weights))
	assert.Equal(t, 0, WeightedIndex(NewSequence(0.25), weights))
	assert.Equal(t, 1, WeightedIndex(NewSequence(0.26), weights))
	assert.Equal(t, 1, WeightedIndex(NewSequence(0.75), weights))
	assert.Equal(t, 2, WeightedIndex(NewSequence(0.99), weights))
}

func TestWeightedIndexDegenerate(t *testing.T) {
	assert.Equal(t, -1, WeightedIndex(NewSequence(0.5), nil))
	assert.Equal(t, 0, WeightedIndex(NewSequence(0.5), []float64{0, 0}))
	// zero-weight entries are never picked once the roll is positive
	assert.Equal(t, 2, WeightedIndex(NewSequence(0.5), []float64{0, 0, 3}))
}

func TestWeightedIndexNegativeWeights(t *testing.T) {
	weights := []float64{2, -5, 2}
	// total is 4; the negative entry neither shrinks it nor absorbs the roll
	assert.Equal(t, 0, WeightedIndex(NewSequence(0.5), weights))
	assert.Equal(t, 2, WeightedIndex(NewSequence(0.51), weights))
	assert.Equal(t, 0, WeightedIndex(NewSequence(0), []float64{-1, 3}))
}

func TestWeightedIndexDistribution(t *testing.T) {
	src := NewSeeded(42)
	counts := make([]int, 3)
	for i := 0; i < 30000; i++ {
		counts[WeightedIndex(src, []float64{1, 2, 7})]++
	}
	assert.InDelta(t, 3000, counts[0], 600)
	assert.InDelta(t, 6000, counts[1], 800)
	assert.InDelta(t, 21000, counts[2], 1200)
}

func TestBetween(t *testing.T) {
	assert.Equal(t, 10, Between(NewSequence(0), 10, 18))
	assert.Equal(t, 18, Between(NewSequence(0.999999), 10, 18))
	assert.Equal(t, 5, Between(NewSequence(0.7), 5, 5))

	src := NewSeeded(7)
	for i := 0; i < 1000; i++ {
		v := Between(src, 10, 18)
		require.GreaterOrEqual(t, v, 10)
		require.LessOrEqual(t, v, 18)
	}
}

func TestSequenceRepeatsLast(t *testing.T) {
	s := NewSequence(0.1, 0.2)
	assert.Equal(t, 0.1, s.Float())
	assert.Equal(t, 0.2, s.Float())
	assert.Equal(t, 0.2, s.Float())
	assert.Equal(t, 0.0, NewSequence().Float())
}

func TestSeededIsDeterministic(t *testing.T) {
	a, b := NewSeeded(99), NewSeeded(99)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float(), b.Float())
	}
}

func TestCryptoRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := Crypto{}.Float()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestNilClient(t *testing.T) {
	assert.Nil(t, NewClient(""))
	var c *Client
	assert.False(t, c.Enabled())
	assert.IsType(t, Crypto{}, FromClient(c))
	v := c.Float()
	assert.GreaterOrEqual(t, v, 0.0)
}

func TestClientPool(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "generateDecimalFractions", req["method"])
		data := make([]float64, 20)
		for i := range data {
			data[i] = 0.5
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"random": map[string]any{"data": data}},
		})
	}))
	defer srv.Close()

	c := NewClient("key")
	c.endpoint = srv.URL
	assert.Same(t, c, FromClient(c))
	assert.Equal(t, 0.5, c.Float())
	assert.Equal(t, 1, calls)
	for i := 0; i < 9; i++ {
		c.Float()
	}
	assert.Equal(t, 1, calls)
}

func TestClientFallsBackOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"quota"}}`))
	}))
	defer srv.Close()

	c := NewClient("key")
	c.endpoint = srv.URL
	v := c.Float()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}

func TestClientFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("key")
	c.endpoint = srv.URL
	_, err := c.fetch()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestClientDropsOutOfRangeDraws(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req drawRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, drawBatch, req.Params.N)
		_, _ = w.Write([]byte(`{"result":{"random":{"data":[0.2,1,-0.1,0.7]}}}`))
	}))
	defer srv.Close()

	c := NewClient("key")
	c.endpoint = srv.URL
	draws, err := c.fetch()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.2, 0.7}, draws)
}
