package server

import (
	"errors"
	"image"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/witchbooru/witchbooru/tagger"
)

// Predictor is satisfied by *tagger.Classifier.
type Predictor interface {
	Predict(img image.Image) (*tagger.Prediction, error)
}

// NewRouter wires the prediction and health endpoints.
func NewRouter(p Predictor, f *Fetcher) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID, allowAnyOrigin)
	r.POST("/predict", PredictHandler(p, f))
	r.GET("/predict", PredictHandler(p, f))
	r.GET("/health", HealthHandler)
	return r
}

func requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("request_id", id)
	c.Header("X-Request-ID", id)
	c.Next()
}

func allowAnyOrigin(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Next()
}

func PredictHandler(p Predictor, f *Fetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, err := extractImage(c, f)
		if err != nil {
			slog.Warn("Rejected image",
				slog.String("request_id", c.GetString("request_id")),
				slog.String("error", err.Error()))
			c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
			return
		}

		start := time.Now()
		pred, err := p.Predict(img)
		if err != nil {
			slog.Error("Prediction failed",
				slog.String("request_id", c.GetString("request_id")),
				slog.String("error", err.Error()))
			status := http.StatusInternalServerError
			if errors.Is(err, tagger.ErrEmptyImage) {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"ok": false, "error": err.Error()})
			return
		}
		slog.Info("Finished inference",
			slog.String("request_id", c.GetString("request_id")),
			slog.Duration("latency", time.Since(start)))

		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"general":   pred.General,
			"character": pred.Character,
		})
	}
}

// extractImage takes the image from a multipart "file" field, or downloads it
// from a "url" form field or query parameter, in that order.
func extractImage(c *gin.Context, f *Fetcher) (image.Image, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if fh, err := c.FormFile("file"); err == nil && fh.Size > 0 {
			if fh.Size >= f.maxSize {
				return nil, errTooLarge
			}
			file, err := fh.Open()
			if err != nil {
				return nil, err
			}
			defer file.Close()
			return tagger.DecodeImage(file)
		}
	}
	if u := c.PostForm("url"); u != "" {
		return f.Fetch(c.Request.Context(), u)
	}
	if u := c.Query("url"); u != "" {
		return f.Fetch(c.Request.Context(), u)
	}
	return nil, errMissingFile
}

func statusFor(err error) int {
	var fe *fetchError
	switch {
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &fe):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
