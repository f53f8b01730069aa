package anneal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/qubo"
)

// Remote delegates the model to an external hybrid annealing service over a
// single JSON round-trip. The service is a black box returning a best sample
// plus its energy. One attempt per call, bounded by Timeout; every transport,
// timeout, or decode failure surfaces as ErrUnavailable so callers can fall
// back to the local strategy.
type Remote struct {
	Endpoint string
	Token    string
	Timeout  time.Duration

	// Limiter, when set, throttles outbound calls to the service.
	Limiter *rate.Limiter

	// HTTPClient defaults to a client with the configured Timeout.
	HTTPClient *http.Client
}

// NewRemote builds a client for the given endpoint.
func NewRemote(endpoint, token string, timeout time.Duration, perSec float64) *Remote {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	var lim *rate.Limiter
	if perSec > 0 {
		lim = rate.NewLimiter(rate.Limit(perSec), 1)
	}
	return &Remote{
		Endpoint:   endpoint,
		Token:      token,
		Timeout:    timeout,
		Limiter:    lim,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type remoteQuad struct {
	U    string  `json:"u"`
	V    string  `json:"v"`
	Bias float64 `json:"bias"`
}

type remoteRequest struct {
	Linear    map[string]float64 `json:"linear"`
	Quadratic []remoteQuad       `json:"quadratic"`
	Offset    float64            `json:"offset"`
}

type remoteResponse struct {
	Assignment map[string]int `json:"assignment"`
	Energy     float64        `json:"energy"`
}

// Sample submits the model and normalizes the service's answer. Cancellation
// leaves no observable state behind; the caller just receives ErrUnavailable.
func (r *Remote) Sample(ctx context.Context, m *qubo.Model, vm *qubo.VarMap) (Sample, error) {
	if err := validateModel(m, vm); err != nil {
		return Sample{}, err
	}
	if r.Endpoint == "" {
		return Sample{}, fmt.Errorf("%w: no endpoint configured", ErrUnavailable)
	}
	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return Sample{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body := remoteRequest{Linear: m.Linear, Offset: m.Offset}
	for p, bias := range m.Quadratic {
		body.Quadratic = append(body.Quadratic, remoteQuad{U: p.U, V: p.V, Bias: bias})
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: encode: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}

	client := r.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return Sample{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Sample{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if out.Assignment == nil {
		return Sample{}, fmt.Errorf("%w: response carries no assignment", ErrUnavailable)
	}
	// normalize: every known variable gets an explicit 0/1
	assign := make(map[string]int, vm.Len())
	for _, v := range vm.Order() {
		bit, ok := out.Assignment[v]
		if !ok {
			return Sample{}, fmt.Errorf("%w: variable %s missing from response", ErrUnavailable, v)
		}
		if bit != 0 {
			bit = 1
		}
		assign[v] = bit
	}
	return Sample{Assignment: assign, Energy: out.Energy}, nil
}
