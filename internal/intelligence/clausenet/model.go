// Package clausenet adapts the external binary clause classifier.  The model
// judges whole contracts as Risky or Valid; everything else about the risk
// analysis is rule-based and lives in the contract domain package.
package clausenet

import (
	"time"

	"github.com/smartlex/lexml/pkg/errors"
)

// Label is the classifier's verdict.  The wire encoding follows the model's
// training labels: class 0 is Risky, class 1 is Valid.
type Label int

const (
	LabelRisky Label = 0
	LabelValid Label = 1
)

// String renders the label for logs and reports.
func (l Label) String() string {
	if l == LabelRisky {
		return "Risky"
	}
	return "Valid"
}

// LabelFromClass converts a raw model class index to a Label.  Any class
// other than 0 is treated as Valid, mirroring the model's binary head.
func LabelFromClass(class int) Label {
	if class == 0 {
		return LabelRisky
	}
	return LabelValid
}

// Config describes the deployed clause classifier.
type Config struct {
	// ModelID names the deployed model on the serving backend.
	ModelID string

	// MaxSequenceLength is the fixed token window the model accepts.
	// Longer inputs are truncated, shorter ones padded.
	MaxSequenceLength int

	// Timeout bounds a single classification call end to end.
	Timeout time.Duration
}

// maxSupportedSequenceLength guards against configurations the serving
// backends reject outright.
const maxSupportedSequenceLength = 4096

// Validate checks the configuration against the deployment constraints.
func (c Config) Validate() error {
	if c.ModelID == "" {
		return errors.New(errors.ErrCodeModelConfigInvalid, "model id cannot be empty")
	}
	if c.MaxSequenceLength <= 0 {
		return errors.Newf(errors.ErrCodeModelConfigInvalid,
			"max sequence length %d must be positive", c.MaxSequenceLength)
	}
	if c.MaxSequenceLength > maxSupportedSequenceLength {
		return errors.Newf(errors.ErrCodeModelConfigInvalid,
			"max sequence length %d exceeds supported maximum %d",
			c.MaxSequenceLength, maxSupportedSequenceLength)
	}
	if c.Timeout <= 0 {
		return errors.New(errors.ErrCodeModelConfigInvalid, "timeout must be positive")
	}
	return nil
}

// DefaultConfig returns the configuration of the standard deployment.
func DefaultConfig() Config {
	return Config{
		ModelID:           "clausenet-base",
		MaxSequenceLength: 512,
		Timeout:           5 * time.Second,
	}
}
