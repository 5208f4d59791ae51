package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/witchbooru/witchbooru/tagger"
	"golang.org/x/sync/errgroup"
)

const (
	NeuralNetName     = "neural-net.onnx"
	NaiveBayesName    = "naive-bayes.npz"
	GeneralTagsName   = "general-tags.txt"
	CharacterTagsName = "character-tags.txt"
)

var errNoEngine = errors.New("no engine constructor configured")

// EngineFunc builds an inference engine from the raw model bytes.
type EngineFunc func(model []byte) (tagger.Engine, error)

type Options struct {
	// Chunks > 1 fetches the model as NeuralNetName.part0 .. partN-1 and
	// joins the parts in order.
	Chunks    int
	TopK      int
	NewEngine EngineFunc
}

// Load fetches every artifact from src concurrently and builds a classifier.
func Load(ctx context.Context, src Source, opts Options) (*tagger.Classifier, error) {
	if opts.NewEngine == nil {
		return nil, &tagger.LoadError{Artifact: NeuralNetName, Err: errNoEngine}
	}

	var (
		model     []byte
		linear    *tagger.LinearModel
		general   []string
		character []string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := readModel(ctx, src, opts.Chunks)
		if err != nil {
			return err
		}
		slog.Info("Downloaded neural net", slog.Int("bytes", len(b)))
		model = b
		return nil
	})
	g.Go(func() error {
		b, err := readAll(ctx, src, NaiveBayesName)
		if err != nil {
			return err
		}
		m, err := tagger.LoadLinearModel(bytes.NewReader(b), int64(len(b)))
		if err != nil {
			return err
		}
		slog.Info("Loaded naive bayes", slog.Int("rows", m.Rows), slog.Int("cols", m.Cols))
		linear = m
		return nil
	})
	g.Go(func() (err error) {
		general, err = readVocabulary(ctx, src, GeneralTagsName)
		return err
	})
	g.Go(func() (err error) {
		character, err = readVocabulary(ctx, src, CharacterTagsName)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	engine, err := opts.NewEngine(model)
	if err != nil {
		return nil, err
	}
	c, err := tagger.New(tagger.Params{
		Engine:    engine,
		Linear:    linear,
		General:   general,
		Character: character,
		TopK:      opts.TopK,
	})
	if err != nil {
		if d, ok := engine.(interface{ Destroy() }); ok {
			d.Destroy()
		}
		return nil, err
	}
	slog.Info("Loaded all model components",
		slog.Int("general_tags", len(general)),
		slog.Int("character_tags", len(character)))
	return c, nil
}

func readModel(ctx context.Context, src Source, chunks int) ([]byte, error) {
	if chunks <= 1 {
		return readAll(ctx, src, NeuralNetName)
	}
	parts := make([][]byte, chunks)
	g, ctx := errgroup.WithContext(ctx)
	for i := range parts {
		i := i
		g.Go(func() error {
			b, err := readAll(ctx, src, fmt.Sprintf("%s.part%d", NeuralNetName, i))
			parts[i] = b
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bytes.Join(parts, nil), nil
}

func readAll(ctx context.Context, src Source, name string) ([]byte, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, &tagger.LoadError{Artifact: name, Err: err}
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, &tagger.LoadError{Artifact: name, Err: err}
	}
	return b, nil
}

func readVocabulary(ctx context.Context, src Source, name string) ([]string, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, &tagger.LoadError{Artifact: name, Err: err}
	}
	defer rc.Close()
	tags, err := tagger.ReadVocabulary(rc)
	if err != nil {
		return nil, &tagger.LoadError{Artifact: name, Err: err}
	}
	return tags, nil
}
