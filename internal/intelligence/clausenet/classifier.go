package clausenet

import (
	"context"
	"math"
	"strings"

	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
	"github.com/smartlex/lexml/internal/intelligence/common"
	"github.com/smartlex/lexml/pkg/errors"
)

// Classifier is the narrow port the analysis pipeline depends on.
type Classifier interface {
	// Classify returns the model's verdict for the full contract text.
	// Backend failures surface as CLS_xxx coded errors; the caller decides
	// the degradation policy.
	Classify(ctx context.Context, text string) (Label, error)
}

// servingClassifier runs classification against a model server through the
// shared serving client.
type servingClassifier struct {
	cfg       Config
	client    common.ServingClient
	tokenizer *Tokenizer
	log       logging.Logger
}

// NewServingClassifier builds a Classifier over client.  cfg must validate.
func NewServingClassifier(cfg Config, client common.ServingClient, log logging.Logger) (Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &servingClassifier{
		cfg:       cfg,
		client:    client,
		tokenizer: NewTokenizer(cfg.MaxSequenceLength),
		log:       log.Named("clausenet"),
	}, nil
}

// Classify tokenizes text to the model's fixed window and asks the backend
// for a verdict.  The call is bounded by the configured timeout; this is the
// only externally-bounded step of an analysis.
func (c *servingClassifier) Classify(ctx context.Context, text string) (Label, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	tokens := c.tokenizer.Tokenize(text)
	req := &common.PredictRequest{
		ModelID: c.cfg.ModelID,
		Inputs: map[string]interface{}{
			"tokens": strings.Join(tokens, " "),
		},
	}

	resp, err := c.client.Predict(ctx, req)
	if err != nil {
		if errors.Is(err, common.ErrInferenceTimeout) || ctx.Err() == context.DeadlineExceeded {
			return LabelValid, errors.Wrap(err, errors.ErrCodeClassifierTimeout, "classification timed out")
		}
		return LabelValid, errors.Wrap(err, errors.ErrCodeClassifierUnavailable, "classifier backend unavailable")
	}

	return decodeLabel(resp)
}

// decodeLabel extracts the verdict from a serving response.  Backends answer
// either with a scalar "label" (the argmax class) or with raw "logits".
func decodeLabel(resp *common.PredictResponse) (Label, error) {
	if v, ok := resp.Float64Output("label"); ok {
		return LabelFromClass(int(v)), nil
	}
	if logits, ok := resp.Float64SliceOutput("logits"); ok && len(logits) > 0 {
		return LabelFromClass(argmax(logits)), nil
	}
	return LabelValid, errors.New(errors.ErrCodeClassifierBadOutput,
		"serving response carries neither label nor logits")
}

func argmax(vs []float64) int {
	best, bestVal := 0, math.Inf(-1)
	for i, v := range vs {
		if v > bestVal {
			best, bestVal = i, v
		}
	}
	return best
}

// StaticClassifier always answers with a fixed label.  Used in tests and as
// the "mock" backend.
type StaticClassifier struct {
	Label Label
	Err   error
}

func (s StaticClassifier) Classify(context.Context, string) (Label, error) {
	if s.Err != nil {
		return LabelValid, s.Err
	}
	return s.Label, nil
}
