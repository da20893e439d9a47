package model

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	ErrBadInput  = errors.New("batch does not match the model input")
	ErrBadOutput = errors.New("model returned an invalid probability vector")
)

// Classifier runs one forward pass and returns class probabilities in
// Labels order.
type Classifier interface {
	Probabilities(batch *Batch) ([]float32, error)
}

type Predictor struct {
	classifier Classifier
}

func NewPredictor(classifier Classifier) *Predictor {
	return &Predictor{classifier: classifier}
}

func (p *Predictor) Predict(batch *Batch) (*PredictionResult, error) {
	if err := checkBatch(batch); err != nil {
		return nil, err
	}

	probs, err := p.classifier.Probabilities(batch)
	if err != nil {
		return nil, err
	}
	return Interpret(probs)
}

func checkBatch(batch *Batch) error {
	want := InputShape()
	if !slices.Equal(batch.Shape, want) {
		return fmt.Errorf("%w: shape %v, want %v", ErrBadInput, batch.Shape, want)
	}
	size := int64(1)
	for _, d := range batch.Shape {
		size *= d
	}
	if int64(len(batch.Data)) != size {
		return fmt.Errorf("%w: %d values for shape %v", ErrBadInput, len(batch.Data), batch.Shape)
	}
	return nil
}

// Interpret picks the argmax class and reports its probability as a
// percentage rounded to two decimals.
func Interpret(probs []float32) (*PredictionResult, error) {
	if len(probs) != NumClasses {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrBadOutput, NumClasses, len(probs))
	}

	maxIdx := 0
	maxVal := probs[0]
	for i, val := range probs {
		if math.IsNaN(float64(val)) {
			return nil, fmt.Errorf("%w: NaN at index %d", ErrBadOutput, i)
		}
		if val > maxVal {
			maxVal = val
			maxIdx = i
		}
	}

	return &PredictionResult{
		Label:      Labels[maxIdx],
		Confidence: confidence(maxVal),
	}, nil
}

func confidence(p float32) float64 {
	pct := math.Round(float64(p)*100*100) / 100
	return math.Min(100, math.Max(0, pct))
}
