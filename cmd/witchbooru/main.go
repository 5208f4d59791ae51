package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/witchbooru/witchbooru/artifact"
	"github.com/witchbooru/witchbooru/onnx"
	"github.com/witchbooru/witchbooru/tagger"
)

func main() {
	var (
		modelDir string
		topK     int
		ortPath  string
		asJSON   bool
	)
	flag.StringVar(&modelDir, "m", "", "Directory holding neural-net.onnx, naive-bayes.npz and the tag lists")
	flag.IntVar(&topK, "k", 20, "Number of tags to report per category")
	flag.StringVar(&ortPath, "ort", "", "Path to onnxruntime shared library (optional)")
	flag.BoolVar(&asJSON, "json", false, "Print the prediction as JSON")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s -m MODEL_DIR [flags] IMAGE\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if modelDir == "" || flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if ortPath != "" {
		os.Setenv("ONNXRUNTIME_SHARED_LIBRARY_PATH", ortPath)
	}

	if err := onnx.InitRuntime(); err != nil {
		log.Fatalf("failed to initialize onnxruntime: %v", err)
	}
	defer onnx.DestroyRuntime()

	classifier, err := artifact.Load(context.Background(), artifact.DirSource{Dir: modelDir}, artifact.Options{
		TopK: topK,
		NewEngine: func(model []byte) (tagger.Engine, error) {
			return onnx.NewEngine(model, 1)
		},
	})
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("failed to open image: %v", err)
	}
	img, err := tagger.DecodeImage(f)
	f.Close()
	if err != nil {
		log.Fatalf("%v", err)
	}

	pred, err := classifier.Predict(img)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(pred); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}
	fmt.Println(formatPrediction(pred))
}
