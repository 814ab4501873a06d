// Package entropy supplies the uniform draws the simulation consumes: event
// rolls, roulette selection, election outcomes and Level-2 pacing. A
// random.org client backs live servers; seeded and scripted sources make
// runs reproducible.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	randomOrgURL = "https://api.random.org/json-rpc/4/invoke"

	// drawBatch is how many fractions one request buys; poolLow triggers
	// the next request.
	drawBatch = 100
	poolLow   = 10
)

// Source yields uniform floats in [0, 1).
type Source interface {
	Float() float64
}

// Client draws event and election rolls from random.org. Fractions are
// bought in batches and kept in a local pool; a failed purchase falls back
// to crypto/rand for that draw.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client

	mu   sync.Mutex
	pool []float64
}

// NewClient returns nil for an empty key, leaving the server on Crypto.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: randomOrgURL,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Float implements Source.
func (c *Client) Float() float64 {
	if c == nil {
		return cryptoRandFloat()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pool) < poolLow {
		fresh, err := c.fetch()
		if err != nil {
			slog.Warn("random.org draw failed, using crypto/rand", "pool", len(c.pool), "error", err)
		} else {
			c.pool = append(c.pool, fresh...)
			slog.Debug("random.org pool refilled", "pool", len(c.pool))
		}
	}
	if len(c.pool) == 0 {
		return cryptoRandFloat()
	}
	v := c.pool[0]
	c.pool = c.pool[1:]
	return v
}

type drawRequest struct {
	JSONRPC string     `json:"jsonrpc"`
	Method  string     `json:"method"`
	Params  drawParams `json:"params"`
	ID      int        `json:"id"`
}

type drawParams struct {
	APIKey        string `json:"apiKey"`
	N             int    `json:"n"`
	DecimalPlaces int    `json:"decimalPlaces"`
}

type drawResponse struct {
	Result struct {
		Random struct {
			Data []float64 `json:"data"`
		} `json:"random"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// fetch buys one batch of decimal fractions. Values outside [0, 1) are
// dropped.
func (c *Client) fetch() ([]float64, error) {
	body, err := json.Marshal(drawRequest{
		JSONRPC: "2.0",
		Method:  "generateDecimalFractions",
		Params:  drawParams{APIKey: c.apiKey, N: drawBatch, DecimalPlaces: 6},
		ID:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("encode draw request: %w", err)
	}

	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("post draw request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("draw request: status %d", resp.StatusCode)
	}

	var out drawResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode draw response: %w", err)
	}
	if out.Error != nil {
		return nil, errors.New("random.org: " + out.Error.Message)
	}

	draws := make([]float64, 0, len(out.Result.Random.Data))
	for _, v := range out.Result.Random.Data {
		if v >= 0 && v < 1 {
			draws = append(draws, v)
		}
	}
	return draws, nil
}

// Enabled reports whether draws go to random.org.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

func cryptoRandFloat() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0.5
	}
	// 53 bits give a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

// Crypto draws from crypto/rand. It is the default source of a live server.
type Crypto struct{}

// Float implements Source.
func (Crypto) Float() float64 { return cryptoRandFloat() }

// FromClient returns c as a Source, or Crypto when c is not configured.
func FromClient(c *Client) Source {
	if c.Enabled() {
		return c
	}
	return Crypto{}
}
