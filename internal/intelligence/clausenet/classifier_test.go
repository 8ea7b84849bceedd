package clausenet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartlex/lexml/internal/infrastructure/monitoring/logging"
	"github.com/smartlex/lexml/internal/intelligence/common"
	"github.com/smartlex/lexml/pkg/errors"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model id", func(c *Config) { c.ModelID = "" }},
		{"zero sequence length", func(c *Config) { c.MaxSequenceLength = 0 }},
		{"oversized sequence length", func(c *Config) { c.MaxSequenceLength = 100000 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeModelConfigInvalid))
		})
	}
}

func TestLabelMapping(t *testing.T) {
	assert.Equal(t, LabelRisky, LabelFromClass(0))
	assert.Equal(t, LabelValid, LabelFromClass(1))
	assert.Equal(t, LabelValid, LabelFromClass(7))
	assert.Equal(t, "Risky", LabelRisky.String())
	assert.Equal(t, "Valid", LabelValid.String())
}

func newClassifier(t *testing.T, mock *common.MockServingClient) Classifier {
	t.Helper()
	c, err := NewServingClassifier(DefaultConfig(), mock, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestClassifyScalarLabel(t *testing.T) {
	mock := &common.MockServingClient{
		PredictFn: func(_ context.Context, req *common.PredictRequest) (*common.PredictResponse, error) {
			return &common.PredictResponse{
				ModelID: req.ModelID,
				Outputs: map[string]interface{}{"label": float64(0)},
			}, nil
		},
	}

	label, err := newClassifier(t, mock).Classify(context.Background(), "some contract")
	require.NoError(t, err)
	assert.Equal(t, LabelRisky, label)
}

func TestClassifyLogits(t *testing.T) {
	mock := &common.MockServingClient{
		PredictFn: func(_ context.Context, req *common.PredictRequest) (*common.PredictResponse, error) {
			return &common.PredictResponse{
				ModelID: req.ModelID,
				Outputs: map[string]interface{}{"logits": []interface{}{float64(-1.2), float64(3.4)}},
			}, nil
		},
	}

	label, err := newClassifier(t, mock).Classify(context.Background(), "some contract")
	require.NoError(t, err)
	assert.Equal(t, LabelValid, label)
}

func TestClassifyUnavailableBackend(t *testing.T) {
	mock := &common.MockServingClient{
		PredictFn: func(context.Context, *common.PredictRequest) (*common.PredictResponse, error) {
			return nil, common.ErrServingUnavailable
		},
	}

	label, err := newClassifier(t, mock).Classify(context.Background(), "some contract")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeClassifierUnavailable))
	assert.Equal(t, LabelValid, label, "unavailable backends default to Valid")
}

func TestClassifyTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 10 * time.Millisecond

	mock := &common.MockServingClient{
		PredictFn: func(ctx context.Context, _ *common.PredictRequest) (*common.PredictResponse, error) {
			<-ctx.Done()
			return nil, common.ErrInferenceTimeout
		},
	}

	c, err := NewServingClassifier(cfg, mock, logging.NewNopLogger())
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), "some contract")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeClassifierTimeout))
}

func TestClassifyBadOutput(t *testing.T) {
	mock := &common.MockServingClient{
		PredictFn: func(_ context.Context, req *common.PredictRequest) (*common.PredictResponse, error) {
			return &common.PredictResponse{ModelID: req.ModelID, Outputs: map[string]interface{}{"weights": "garbage"}}, nil
		},
	}

	_, err := newClassifier(t, mock).Classify(context.Background(), "some contract")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeClassifierBadOutput))
}

func TestNewServingClassifierRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelID = ""
	_, err := NewServingClassifier(cfg, &common.MockServingClient{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestStaticClassifier(t *testing.T) {
	label, err := StaticClassifier{Label: LabelRisky}.Classify(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, LabelRisky, label)

	wantErr := errors.New(errors.ErrCodeClassifierUnavailable, "down")
	label, err = StaticClassifier{Err: wantErr}.Classify(context.Background(), "x")
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, LabelValid, label)
}
