package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/witchbooru/witchbooru/artifact"
	"github.com/witchbooru/witchbooru/config"
	"github.com/witchbooru/witchbooru/onnx"
	"github.com/witchbooru/witchbooru/tagger"
)

// Init loads the model artifacts named by the configuration and builds the
// classifier shared by every request.
func Init(ctx context.Context) (*tagger.Classifier, error) {
	cfg := config.C()
	src, err := newSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact source: %w", err)
	}

	c, err := artifact.Load(ctx, src, artifact.Options{
		Chunks: cfg.ModelChunks,
		TopK:   cfg.TopK,
		NewEngine: func(model []byte) (tagger.Engine, error) {
			return onnx.NewEngine(model, cfg.Workers)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier: %w", err)
	}
	return c, nil
}

func newSource(ctx context.Context, cfg config.Config) (artifact.Source, error) {
	switch {
	case cfg.S3.Bucket != "":
		return artifact.NewS3Source(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Endpoint)
	case cfg.ModelUrl != "":
		slog.Info("Downloading model artifacts", slog.String("url", cfg.ModelUrl))
		return artifact.HTTPSource{BaseURL: cfg.ModelUrl}, nil
	default:
		slog.Info("Reading model artifacts", slog.String("dir", cfg.ModelDir))
		return artifact.DirSource{Dir: cfg.ModelDir}, nil
	}
}
