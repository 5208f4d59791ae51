package tagger

import (
	"fmt"
	"image"
	"math"

	"github.com/witchbooru/witchbooru/topk"
)

// Classifier predicts general and character tags for images. It is immutable
// once built and may be shared between goroutines.
type Classifier struct {
	engine    Engine
	linear    *LinearModel
	general   []string
	character []string
	topK      int
}

func New(p Params) (*Classifier, error) {
	if p.Engine == nil {
		return nil, &LoadError{Artifact: "neural net", Err: fmt.Errorf("no engine")}
	}
	if p.Linear == nil {
		return nil, &LoadError{Artifact: "naive bayes", Err: fmt.Errorf("no linear model")}
	}
	if p.TopK <= 0 {
		return nil, ErrInvalidTopK
	}
	if n := p.Engine.OutputLen(); len(p.General) > n {
		return nil, &ConfigMismatchError{Name: "general vocabulary exceeds neural net outputs", Want: n, Got: len(p.General)}
	}
	if p.Linear.Rows != len(p.General) {
		return nil, &ConfigMismatchError{Name: "naive bayes rows vs general vocabulary", Want: len(p.General), Got: p.Linear.Rows}
	}
	if p.Linear.Cols != len(p.Character) {
		return nil, &ConfigMismatchError{Name: "character vocabulary vs naive bayes outputs", Want: p.Linear.Cols, Got: len(p.Character)}
	}

	return &Classifier{
		engine:    p.Engine,
		linear:    p.Linear,
		general:   p.General,
		character: p.Character,
		topK:      p.TopK,
	}, nil
}

func (c *Classifier) TopK() int { return c.topK }

// Predict scores img and returns the top-k tags of each vocabulary. General
// tags must score above GeneralThreshold; character tags are ranked on their
// logits and reported as probabilities.
func (c *Classifier) Predict(img image.Image) (*Prediction, error) {
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	input := Preprocess(img)
	output, err := c.engine.Run(input)
	if err != nil {
		return nil, &InferenceError{Err: err}
	}
	if len(output) < len(c.general) {
		return nil, &InferenceError{Err: fmt.Errorf("neural net returned %d scores for %d general tags", len(output), len(c.general))}
	}
	probs := output[:len(c.general)]

	candidates := make([]Tag, 0, len(probs))
	for i, p := range probs {
		if p > GeneralThreshold {
			candidates = append(candidates, Tag{Name: c.general[i], Score: p})
		}
	}
	general := topk.Select(candidates, c.topK, tagScore)

	logits, err := c.linear.Apply(probs)
	if err != nil {
		return nil, &InferenceError{Err: err}
	}
	characters := make([]Tag, len(logits))
	for i, l := range logits {
		characters[i] = Tag{Name: c.character[i], Score: l}
	}
	character := topk.Select(characters, c.topK, tagScore)
	for i := range character {
		character[i].Score = Sigmoid(character[i].Score)
	}

	return &Prediction{General: general, Character: character}, nil
}

func tagScore(t Tag) float32 { return t.Score }

// Sigmoid is the logistic function. Only the exponential is evaluated in
// float64; the sum and quotient are float32.
func Sigmoid(x float32) float32 {
	return 1 / (1 + float32(math.Exp(float64(-x))))
}
