// Package common provides the shared model-serving client used by the
// intelligence adapters.  It abstracts over the transport (gRPC or HTTP) so
// that model packages depend only on the ServingClient interface.
package common

import "errors"

// Sentinel errors returned by serving clients.  Callers match with errors.Is.
var (
	// ErrServingUnavailable indicates the model backend cannot be reached
	// or refused the request.
	ErrServingUnavailable = errors.New("serving backend unavailable")

	// ErrInferenceTimeout indicates the request exceeded its deadline.
	ErrInferenceTimeout = errors.New("inference timeout")

	// ErrBadResponse indicates the backend answered with an output the
	// caller cannot interpret.
	ErrBadResponse = errors.New("malformed serving response")

	// ErrClientClosed indicates Predict was called after Close.
	ErrClientClosed = errors.New("serving client closed")
)

// PredictRequest is one inference call.
type PredictRequest struct {
	// ModelID names the deployed model to invoke.
	ModelID string `json:"model_id"`

	// Inputs carries the named input tensors or features.  Values must be
	// JSON-serialisable; numeric slices are passed as []interface{}.
	Inputs map[string]interface{} `json:"inputs"`
}

// PredictResponse is the backend's answer to one inference call.
type PredictResponse struct {
	ModelID string                 `json:"model_id"`
	Outputs map[string]interface{} `json:"outputs"`
}

// Float64Output extracts a numeric output by name.  Serving backends encode
// scalars as JSON numbers, which decode to float64.
func (r *PredictResponse) Float64Output(name string) (float64, bool) {
	if r == nil || r.Outputs == nil {
		return 0, false
	}
	v, ok := r.Outputs[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Float64SliceOutput extracts a numeric vector output by name.
func (r *PredictResponse) Float64SliceOutput(name string) ([]float64, bool) {
	if r == nil || r.Outputs == nil {
		return nil, false
	}
	raw, ok := r.Outputs[name]
	if !ok {
		return nil, false
	}
	switch vs := raw.(type) {
	case []float64:
		return vs, true
	case []interface{}:
		out := make([]float64, 0, len(vs))
		for _, v := range vs {
			n, ok := v.(float64)
			if !ok {
				return nil, false
			}
			out = append(out, n)
		}
		return out, true
	default:
		return nil, false
	}
}
