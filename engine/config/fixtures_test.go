package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// Precision is a closed enum persisted as its string tag.
type Precision string

const (
	PrecisionFP16 Precision = "fp16"
	PrecisionFP32 Precision = "fp32"
)

func (p Precision) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

func (p *Precision) UnmarshalText(text []byte) error {
	switch Precision(text) {
	case PrecisionFP16, PrecisionFP32:
		*p = Precision(text)
		return nil
	default:
		return fmt.Errorf("unknown precision %q", string(text))
	}
}

// Optimizer is a polymorphic capability; concrete variants carry their own
// hyperparameters and are selected by the persisted discriminator.
type Optimizer interface {
	Variant
}

type AdamOptimizer struct {
	LR    float64 `json:"lr"`
	Beta1 float64 `json:"beta1"`
	Beta2 float64 `json:"beta2"`
}

func (o *AdamOptimizer) Tag() string { return "adam" }

func (o *AdamOptimizer) Defaults() any {
	return &AdamOptimizer{Beta1: 0.9, Beta2: 0.999}
}

type SGDOptimizer struct {
	LR       float64 `json:"lr"`
	Momentum float64 `json:"momentum"`
}

func (o *SGDOptimizer) Tag() string { return "sgd" }

type DatasetConfig struct {
	Name  string  `json:"name" validate:"required"`
	Split float64 `json:"split"`
}

func (c *DatasetConfig) Defaults() any {
	return &DatasetConfig{Split: 0.8}
}

type TrainConfig struct {
	LR        float64           `json:"lr"                  validate:"required"`
	Epochs    int               `json:"epochs"`
	Precision Precision         `json:"precision"`
	Optimizer Optimizer         `json:"optimizer,omitempty"`
	Dataset   DatasetConfig     `json:"dataset"`
	Labels    map[string]string `json:"labels,omitempty"`
	Seeds     []int             `json:"seeds,omitempty"`
}

func (c *TrainConfig) Defaults() any {
	return &TrainConfig{Epochs: 10, Precision: PrecisionFP32}
}

func (c *TrainConfig) SchemaVersion() int { return 2 }

func newTestDecoder(t *testing.T) *Decoder {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, Register[Optimizer](registry, &AdamOptimizer{}))
	require.NoError(t, Register[Optimizer](registry, &SGDOptimizer{}))
	return NewDecoder(registry)
}
