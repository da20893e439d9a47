package model

import "fmt"

// Label is one of the nine classes the leaf model predicts.
type Label string

const (
	BacterialSpot       Label = "Bacterial_spot"
	EarlyBlight         Label = "Early_blight"
	LateBlight          Label = "Late_blight"
	LeafMold            Label = "Leaf_Mold"
	SeptoriaLeafSpot    Label = "Septorial_leaf_spot"
	SpiderMites         Label = "Spider_mites Two-spotted_spider_mite"
	YellowLeafCurlVirus Label = "Tomato_Yellow_Leaf_Curl_Virus"
	MosaicVirus         Label = "Tomato_mosaic_virus"
	Healthy             Label = "Healthy"
)

// Labels is ordered the same way as the model's output vector.
var Labels = [...]Label{
	BacterialSpot,
	EarlyBlight,
	LateBlight,
	LeafMold,
	SeptoriaLeafSpot,
	SpiderMites,
	YellowLeafCurlVirus,
	MosaicVirus,
	Healthy,
}

const NumClasses = len(Labels)

// Input geometry of the model: one NHWC image of 256x256 RGB.
const (
	ImageSize = 256
	Channels  = 3
)

func (l Label) Valid() bool {
	for _, known := range Labels {
		if l == known {
			return true
		}
	}
	return false
}

// ParseLabel converts s to a Label, rejecting anything outside the fixed set.
func ParseLabel(s string) (Label, error) {
	l := Label(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown class label %q", s)
	}
	return l, nil
}

// Batch is the preprocessed model input.
type Batch struct {
	Shape []int64
	Data  []float32
}

// InputShape is the NHWC shape the model accepts.
func InputShape() []int64 {
	return []int64{1, ImageSize, ImageSize, Channels}
}

// NewBatch allocates an empty batch of one image.
func NewBatch() *Batch {
	return &Batch{
		Shape: InputShape(),
		Data:  make([]float32, ImageSize*ImageSize*Channels),
	}
}

type PredictionResult struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}
