package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type S3 struct {
	Bucket   string `toml:"bucket" mapstructure:"bucket"`
	Region   string `toml:"region" mapstructure:"region"`
	Endpoint string `toml:"endpoint" mapstructure:"endpoint"`
}

type Config struct {
	Host    string `toml:"host" mapstructure:"host"`
	Port    string `toml:"port" mapstructure:"port"`
	Libonnx string `toml:"libonnx" mapstructure:"libonnx"`
	TopK    int    `toml:"topk" mapstructure:"topk"`
	Workers int    `toml:"workers" mapstructure:"workers"`

	// Model artifacts come from S3 when a bucket is set, else from ModelUrl
	// when set, else from ModelDir.
	ModelDir    string `toml:"model_dir" mapstructure:"model_dir"`
	ModelUrl    string `toml:"model_url" mapstructure:"model_url"`
	ModelChunks int    `toml:"model_chunks" mapstructure:"model_chunks"`
	S3          S3     `toml:"s3" mapstructure:"s3"`

	// FetchTimeout bounds remote image downloads, in seconds.
	FetchTimeout int   `toml:"fetch_timeout" mapstructure:"fetch_timeout"`
	MaxImageSize int64 `toml:"max_image_size" mapstructure:"max_image_size"`
}

func (c Config) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

// localstack endpoint used when running under SAM local
const samLocalEndpoint = "http://localstack:4566"

var (
	cfg      = Default()
	loadOnce sync.Once
)

func Default() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         "8000",
		TopK:         20,
		Workers:      1,
		ModelDir:     "model",
		ModelChunks:  1,
		S3:           S3{Region: "ap-northeast-1"},
		FetchTimeout: 5,
		MaxImageSize: 8 * 1024 * 1024,
	}
}

// Parse decodes a TOML document on top of the defaults.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// applyEnv lets the deployment environment override the artifact location.
func applyEnv(c *Config, getenv func(string) string) {
	if v := getenv("BUCKET_NAME"); v != "" {
		c.S3.Bucket = v
	}
	if v := getenv("AWS_REGION"); v != "" {
		c.S3.Region = v
	}
	if getenv("AWS_SAM_LOCAL") != "" {
		c.S3.Endpoint = samLocalEndpoint
	}
	if v := getenv("NEURAL_NET_NUM_CHUNKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ModelChunks = n
		}
	}
}

func C() Config {
	loadOnce.Do(func() {
		if _, err := os.Stat("config.toml"); err == nil {
			data, err := os.ReadFile("config.toml")
			if err != nil {
				panic(err)
			}
			c, err := Parse(data)
			if err != nil {
				panic(err)
			}
			cfg = c
		}
		applyEnv(&cfg, os.Getenv)
	})
	return cfg
}
