// Package api exposes the prediction pipeline over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"StockPredictor/internal/calculator"
	"StockPredictor/internal/inference"
	"StockPredictor/internal/loader"
	"StockPredictor/internal/metrics"
	"StockPredictor/internal/model"
	"StockPredictor/internal/predictor"
	"StockPredictor/internal/recorder"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 500
)

// Handler serves the prediction routes. All fields are shared across
// requests and must not be mutated after startup.
type Handler struct {
	Predictor *predictor.Predictor
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Log       *zap.Logger
	ModelPath string

	startedAt time.Time
}

// NewHandler creates a Handler.
func NewHandler(p *predictor.Predictor, rec recorder.Recorder, m *metrics.Metrics, log *zap.Logger, modelPath string) *Handler {
	return &Handler{
		Predictor: p,
		Recorder:  rec,
		Metrics:   m,
		Log:       log,
		ModelPath: modelPath,
		startedAt: time.Now(),
	}
}

// PredictOptions answers the CORS preflight for /predict.
func (h *Handler) PredictOptions(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Status(http.StatusOK)
}

// Predict runs the pipeline and writes {prediction, history}, or a plain
// text error on any failure.
func (h *Handler) Predict(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")

	start := time.Now()
	res, err := h.Predictor.Predict()
	elapsed := time.Since(start)
	h.Metrics.PredictDuration.Observe(elapsed.Seconds())

	rec := &recorder.PredictionRecord{
		ID:        uuid.NewString(),
		Timestamp: start,
		Window:    h.Predictor.Window,
		LatencyMs: float64(elapsed.Microseconds()) / 1000,
	}

	if err != nil {
		h.Metrics.PredictionsTotal.WithLabelValues(outcome(err)).Inc()
		rec.Error = err.Error()
		h.record(rec)
		h.Log.Warn("prediction failed", zap.String("request_id", rec.ID), zap.Error(err))
		c.String(http.StatusInternalServerError, "Error: %s", err.Error())
		return
	}

	h.Metrics.PredictionsTotal.WithLabelValues("ok").Inc()
	h.Metrics.LastPrediction.Set(res.Prediction)

	rec.InputSteps = res.Input.Steps()
	rec.Prediction = res.Prediction
	rec.LastClose = res.History[len(res.History)-1]
	if sma, err := calculator.CalculateSMA32(res.Input.Data); err == nil {
		rec.BaselineSMA = sma
	}
	h.record(rec)

	c.JSON(http.StatusOK, model.Prediction{
		Prediction: res.Prediction,
		History:    res.History,
	})
}

// RecentPredictions lists stored prediction records, newest first.
func (h *Handler) RecentPredictions(c *gin.Context) {
	limit := defaultRecentLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRecentLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer in 1..500"})
			return
		}
		limit = n
	}

	recs, err := h.Recorder.Recent(limit)
	if err != nil {
		h.Log.Error("list predictions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if recs == nil {
		recs = []recorder.PredictionRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"predictions": recs, "count": len(recs)})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
		"model":  h.ModelPath,
		"window": h.Predictor.Window,
	})
}

func (h *Handler) record(rec *recorder.PredictionRecord) {
	if err := h.Recorder.RecordPrediction(rec); err != nil {
		h.Log.Warn("record prediction", zap.String("request_id", rec.ID), zap.Error(err))
	}
}

// outcome maps a pipeline error to a metrics label.
func outcome(err error) string {
	var (
		dae *loader.DataAccessError
		ide *loader.InsufficientDataError
		pe  *loader.ParseError
		ie  *inference.InferenceError
	)
	switch {
	case errors.As(err, &dae):
		return "data_access_error"
	case errors.As(err, &ide):
		return "insufficient_data"
	case errors.As(err, &pe):
		return "parse_error"
	case errors.As(err, &ie):
		return "inference_error"
	default:
		return "error"
	}
}
