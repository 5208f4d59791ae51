package tagger

const (
	// ImageSize is the side length of the square model input.
	ImageSize = 512
	// NumChannels is the channel count of the model input.
	NumChannels = 3

	// GeneralThreshold is the score a general tag must exceed to be reported.
	GeneralThreshold float32 = 0.5
)

type Tag struct {
	Name  string  `json:"name"`
	Score float32 `json:"score"`
}

// Prediction holds the ranked tags for one image. Both lists are sorted by
// descending score.
type Prediction struct {
	General   []Tag `json:"general"`
	Character []Tag `json:"character"`
}

// Engine runs the primary network on a preprocessed (1, 3, 512, 512) tensor
// and returns its flattened output.
type Engine interface {
	Run(input []float32) ([]float32, error)
	// OutputLen is the number of scores Run returns.
	OutputLen() int
}

// Params carries everything needed to build a Classifier.
type Params struct {
	Engine    Engine
	Linear    *LinearModel
	General   []string
	Character []string
	TopK      int
}
