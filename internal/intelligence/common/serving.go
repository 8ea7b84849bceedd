package common

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
)

// ServingClient is the transport-neutral contract for talking to a model
// server.  Implementations must be safe for concurrent use.
type ServingClient interface {
	// Predict performs one inference call.  Transport failures surface as
	// ErrServingUnavailable, deadline expiry as ErrInferenceTimeout.
	Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error)

	// Healthy reports whether the backend is ready to serve.
	Healthy(ctx context.Context) error

	// Close releases the underlying connection.  Predict calls after Close
	// fail with ErrClientClosed.
	Close() error
}

// predictMethod is the fully-qualified gRPC method of the generic inference
// endpoint exposed by the model server.
const predictMethod = "/lexml.inference.v1.InferenceService/Predict"

type grpcServingClient struct {
	conn   *grpc.ClientConn
	health grpc_health_v1.HealthClient
	log    logging.Logger

	mu     sync.Mutex
	closed bool
}

// NewGRPCServingClient dials addr and returns a gRPC-backed ServingClient.
// The connection is lazy; dial errors surface on the first Predict.
func NewGRPCServingClient(addr string, log logging.Logger) (ServingClient, error) {
	if addr == "" {
		return nil, fmt.Errorf("serving: grpc address cannot be empty")
	}
	conn, err := grpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("serving: failed to create grpc client for %q: %w", addr, err)
	}
	return &grpcServingClient{
		conn:   conn,
		health: grpc_health_v1.NewHealthClient(conn),
		log:    log.Named("serving.grpc"),
	}, nil
}

func (c *grpcServingClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *grpcServingClient) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}

	in, err := structpb.NewStruct(map[string]interface{}{
		"model_id": req.ModelID,
		"inputs":   req.Inputs,
	})
	if err != nil {
		return nil, fmt.Errorf("serving: failed to encode request: %w", err)
	}

	out := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, predictMethod, in, out); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %v", ErrInferenceTimeout, err)
		}
		c.log.Warn("predict call failed", logging.String("model_id", req.ModelID), logging.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrServingUnavailable, err)
	}

	fields := out.AsMap()
	resp := &PredictResponse{ModelID: req.ModelID}
	if outputs, ok := fields["outputs"].(map[string]interface{}); ok {
		resp.Outputs = outputs
	} else {
		// Servers that omit the envelope return outputs at the top level.
		resp.Outputs = fields
	}
	return resp, nil
}

func (c *grpcServingClient) Healthy(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	resp, err := c.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServingUnavailable, err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: health status %s", ErrServingUnavailable, resp.GetStatus())
	}
	return nil
}

func (c *grpcServingClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

type httpServingClient struct {
	baseURL string
	client  *http.Client
	log     logging.Logger

	mu     sync.Mutex
	closed bool
}

// NewHTTPServingClient returns a ServingClient that POSTs JSON to
// baseURL/v1/predict and checks baseURL/healthz.
func NewHTTPServingClient(baseURL string, log logging.Logger) (ServingClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("serving: http base URL cannot be empty")
	}
	return &httpServingClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.Named("serving.http"),
	}, nil
}

func (c *httpServingClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *httpServingClient) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("serving: failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("serving: failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %v", ErrInferenceTimeout, err)
		}
		c.log.Warn("predict call failed", logging.String("model_id", req.ModelID), logging.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrServingUnavailable, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrServingUnavailable, httpResp.StatusCode)
	}

	resp := &PredictResponse{}
	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return resp, nil
}

func (c *httpServingClient) Healthy(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServingUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", ErrServingUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *httpServingClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.client.CloseIdleConnections()
	return nil
}

// MockServingClient is an in-memory ServingClient for tests and the "mock"
// backend.  PredictFn and HealthyFn may be swapped per test; the zero value
// answers every Predict with empty outputs.
type MockServingClient struct {
	PredictFn func(ctx context.Context, req *PredictRequest) (*PredictResponse, error)
	HealthyFn func(ctx context.Context) error

	mu     sync.Mutex
	calls  int
	closed bool
}

func (m *MockServingClient) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	m.mu.Lock()
	m.calls++
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil, ErrClientClosed
	}
	if m.PredictFn != nil {
		return m.PredictFn(ctx, req)
	}
	return &PredictResponse{ModelID: req.ModelID, Outputs: map[string]interface{}{}}, nil
}

func (m *MockServingClient) Healthy(ctx context.Context) error {
	if m.HealthyFn != nil {
		return m.HealthyFn(ctx)
	}
	return nil
}

func (m *MockServingClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Calls reports how many Predict calls were made.
func (m *MockServingClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// NewServingClient builds a ServingClient for the given backend type:
// "grpc", "http", or "mock".
func NewServingClient(backend, endpoint string, log logging.Logger) (ServingClient, error) {
	switch backend {
	case "grpc":
		return NewGRPCServingClient(endpoint, log)
	case "http":
		return NewHTTPServingClient(endpoint, log)
	case "mock":
		return &MockServingClient{}, nil
	default:
		return nil, fmt.Errorf("serving: unknown backend %q", backend)
	}
}
