package model

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	probs []float32
	err   error
}

func (s stubClassifier) Probabilities(*Batch) ([]float32, error) {
	return s.probs, s.err
}

func onehot(idx int, p float32) []float32 {
	probs := make([]float32, NumClasses)
	rest := (1 - p) / float32(NumClasses-1)
	for i := range probs {
		probs[i] = rest
	}
	probs[idx] = p
	return probs
}

func TestInterpret(t *testing.T) {
	t.Run("argmax and rounding", func(t *testing.T) {
		res, err := Interpret(onehot(8, 0.9213))
		require.NoError(t, err)
		assert.Equal(t, Healthy, res.Label)
		assert.Equal(t, 92.13, res.Confidence)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		res, err := Interpret(onehot(2, 0.876549))
		require.NoError(t, err)
		assert.Equal(t, LateBlight, res.Label)
		assert.Equal(t, 87.65, res.Confidence)
	})

	t.Run("first index wins ties", func(t *testing.T) {
		probs := make([]float32, NumClasses)
		probs[3], probs[5] = 0.5, 0.5
		res, err := Interpret(probs)
		require.NoError(t, err)
		assert.Equal(t, LeafMold, res.Label)
		assert.Equal(t, 50.0, res.Confidence)
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := Interpret([]float32{0.1, 0.9})
		assert.ErrorIs(t, err, ErrBadOutput)
	})

	t.Run("NaN", func(t *testing.T) {
		probs := onehot(0, 0.7)
		probs[4] = float32(math.NaN())
		_, err := Interpret(probs)
		assert.ErrorIs(t, err, ErrBadOutput)
	})
}

func TestConfidenceAlwaysInRange(t *testing.T) {
	for _, p := range []float32{-3, -0.0001, 0, 0.00004, 0.5, 0.99999, 1, 1.7, 250} {
		for idx := range Labels {
			probs := make([]float32, NumClasses)
			for i := range probs {
				probs[i] = -10
			}
			probs[idx] = p

			res, err := Interpret(probs)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.Confidence, 0.0)
			assert.LessOrEqual(t, res.Confidence, 100.0)
			assert.True(t, res.Label.Valid())
		}
	}
}

func TestPredictor(t *testing.T) {
	p := NewPredictor(stubClassifier{probs: onehot(0, 0.6)})
	res, err := p.Predict(NewBatch())
	require.NoError(t, err)
	assert.Equal(t, BacterialSpot, res.Label)
	assert.Equal(t, 60.0, res.Confidence)

	boom := errors.New("boom")
	_, err = NewPredictor(stubClassifier{err: boom}).Predict(NewBatch())
	assert.ErrorIs(t, err, boom)
}

func TestPredictorRejectsMismatchedBatch(t *testing.T) {
	stub := stubClassifier{probs: onehot(0, 0.6)}

	wrongShape := NewBatch()
	wrongShape.Shape = []int64{1, 3, 256, 256}
	_, err := NewPredictor(stub).Predict(wrongShape)
	assert.ErrorIs(t, err, ErrBadInput)

	short := NewBatch()
	short.Data = short.Data[:10]
	_, err = NewPredictor(stub).Predict(short)
	assert.ErrorIs(t, err, ErrBadInput)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, 9, NumClasses)
	for _, l := range Labels {
		parsed, err := ParseLabel(string(l))
		require.NoError(t, err)
		assert.Equal(t, l, parsed)
	}
	_, err := ParseLabel("Powdery_mildew")
	assert.Error(t, err)
}

func TestNewBatchShape(t *testing.T) {
	b := NewBatch()
	assert.Equal(t, []int64{1, 256, 256, 3}, b.Shape)
	assert.Len(t, b.Data, 256*256*3)
}

func TestNewServerMissingModel(t *testing.T) {
	_, err := NewServer(ServerConfig{
		ModelPath:  filepath.Join(t.TempDir(), "model.onnx"),
		InputName:  "input",
		OutputName: "output",
	})
	assert.ErrorIs(t, err, ErrModelNotFound)
}
