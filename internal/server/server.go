// Package server exposes the vehicle-tco forecast over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/vehicle-tco/internal/config"
	"github.com/iwvelando/vehicle-tco/internal/forecast"
	"github.com/iwvelando/vehicle-tco/internal/optimizer"
	"github.com/iwvelando/vehicle-tco/pkg/constants"
	"github.com/iwvelando/vehicle-tco/pkg/depreciation"
	"github.com/iwvelando/vehicle-tco/pkg/optimization"
	"github.com/iwvelando/vehicle-tco/pkg/output"
	"github.com/iwvelando/vehicle-tco/pkg/tco"
	"github.com/iwvelando/vehicle-tco/pkg/validation"
	"github.com/iwvelando/vehicle-tco/pkg/vehicle"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type requestIDKey struct{}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the forecast API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Forecast API endpoint (file upload)
	mux.HandleFunc("/api/forecast", h.handleForecast)

	// Forecast API endpoint for editor-driven updates
	mux.HandleFunc("/api/compare", h.handleCompare)

	// Config serialization endpoint for editor downloads
	mux.HandleFunc("/api/export", h.handleConfigExport)

	// Built-in vehicle classes
	mux.HandleFunc("/api/classes", h.handleClasses)

	mux.HandleFunc("/api/version", h.handleVersion)

	return withRequestID(mux)
}

// withRequestID tags every request with an ID, reusing the caller's
// X-Request-ID when present.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(constants.RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(constants.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// requestLogger returns the handler logger annotated with the request ID.
func (h *handler) requestLogger(r *http.Request) *zap.Logger {
	if id, ok := r.Context().Value(requestIDKey{}).(string); ok {
		return h.logger.With(zap.String("requestID", id))
	}
	return h.logger
}

type forecastResponse struct {
	Comparisons []comparisonResult `json:"comparisons"`
	CSV         string             `json:"csv"`
	Warnings    []string           `json:"warnings,omitempty"`
	Duration    string             `json:"duration"`
	ConfigYAML  string             `json:"configYaml,omitempty"`
}

type comparisonResult struct {
	Name         string                `json:"name"`
	NameA        string                `json:"nameA"`
	NameB        string                `json:"nameB"`
	Horizon      int                   `json:"horizon"`
	Margin       int                   `json:"margin"`
	Rows         []comparisonRow       `json:"rows"`
	Crossing     *tco.CrossingPoint    `json:"crossing,omitempty"`
	SummaryA     float64               `json:"summaryA"`
	SummaryB     float64               `json:"summaryB"`
	Verdict      tco.Verdict           `json:"verdict"`
	VerdictText  string                `json:"verdictText"`
	Breakdown    breakdown             `json:"breakdown"`
	Residuals    residualSchedules     `json:"residuals"`
	Optimization *optimization.Summary `json:"optimization,omitempty"`
}

// forecastOptions carries request flags that do not belong in the configuration.
type forecastOptions struct {
	Optimize bool
}

type comparisonRow struct {
	Year          int      `json:"year"`
	CostA         float64  `json:"costA"`
	CostB         float64  `json:"costB"`
	Diff          float64  `json:"diff"`
	WithinHorizon bool     `json:"withinHorizon"`
	Notes         []string `json:"notes,omitempty"`
}

type breakdown struct {
	A tco.CostSample `json:"a"`
	B tco.CostSample `json:"b"`
}

type residualSchedules struct {
	A []depreciation.Point `json:"a"`
	B []depreciation.Point `json:"b"`
}

type classResponse struct {
	vehicle.Class
	Retention []float64 `json:"retention"`
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.requestLogger(r).Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	options := forecastOptions{Optimize: coerceBool(r.FormValue("optimize"))}
	h.runForecast(w, r, buf.Bytes(), start, op, options)
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	configPayload, options, err := h.decodeConfigPayload(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	configBytes, err := marshalOrderedConfigYAML(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.runForecast(w, r, configBytes, start, op, options)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	configPayload, _, err := h.decodeConfigPayload(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	yamlBytes, err := marshalOrderedConfigYAML(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleClasses(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleClasses"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	catalog := vehicle.DefaultCatalog()
	classes := make([]classResponse, 0, len(catalog))
	for _, tag := range catalog.Tags() {
		class := catalog[tag]
		retention := make([]float64, 0, constants.ResidualScheduleYears)
		for year := 1; year <= constants.ResidualScheduleYears; year++ {
			rate, err := depreciation.RetentionRate(year, class.Curve())
			if err != nil {
				h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
				return
			}
			retention = append(retention, rate)
		}
		classes = append(classes, classResponse{Class: class, Retention: retention})
	}

	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{"classes": classes})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeConfigPayload accepts either {"config": {...}, "options": {...}} or
// a bare configuration object.
func (h *handler) decodeConfigPayload(r *http.Request) (map[string]interface{}, forecastOptions, error) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, forecastOptions{}, fmt.Errorf("failed to decode configuration: %v", err)
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	rawConfig, ok := payload["config"]
	if !ok {
		return payload, forecastOptions{}, nil
	}
	configMap, ok := rawConfig.(map[string]interface{})
	if !ok {
		return nil, forecastOptions{}, errors.New("invalid config payload: expected object")
	}

	options := forecastOptions{}
	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]interface{})
		if !ok {
			return nil, forecastOptions{}, errors.New("invalid options payload: expected object")
		}
		if optimizeVal, ok := optsMap["optimize"]; ok {
			options.Optimize = coerceBool(optimizeVal)
		}
	}
	return configMap, options, nil
}

var topLevelKeyOrder = []string{"logging", "output", "classes", "usage", "comparisons"}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range topLevelKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) runForecast(w http.ResponseWriter, r *http.Request, configBytes []byte, start time.Time, op string, opts forecastOptions) {
	logger := h.requestLogger(r)

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()

	results, err := forecast.GetForecast(logger, *cfg)
	if err != nil {
		status := http.StatusInternalServerError
		if validation.IsInvalidParameter(err) {
			status = http.StatusBadRequest
		}
		h.respondErrorWithOp(w, r, status, fmt.Sprintf("failed to compute forecast: %v", err), op)
		return
	}

	if opts.Optimize {
		runner, err := optimizer.NewRunner(logger, cfg)
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to initialize optimizer: %v", err), op)
			return
		}
		optimizationResult, err := runner.Run()
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("optimizer execution failed: %v", err), op)
			return
		}
		optimizationResult.Apply(results)
	}

	csvText, err := output.CsvString(results)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	comparisons := make([]comparisonResult, 0, len(results))
	for _, result := range results {
		comparison, err := buildComparison(result)
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
			return
		}
		comparisons = append(comparisons, comparison)
	}

	elapsed := time.Since(start)
	response := forecastResponse{
		Comparisons: comparisons,
		CSV:         csvText,
		Warnings:    warnings,
		Duration:    elapsed.String(),
		ConfigYAML:  string(configBytes),
	}

	logger.Info("forecast computed",
		zap.String("op", op),
		zap.Int("comparisons", len(comparisons)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, r, http.StatusOK, response)
}

func buildComparison(result forecast.Forecast) (comparisonResult, error) {
	comparison := result.Comparison
	breakdownA, err := comparison.Breakdown(tco.SideA)
	if err != nil {
		return comparisonResult{}, err
	}
	breakdownB, err := comparison.Breakdown(tco.SideB)
	if err != nil {
		return comparisonResult{}, err
	}

	rows := make([]comparisonRow, 0, len(comparison.SeriesA))
	for year := range comparison.SeriesA {
		rows = append(rows, comparisonRow{
			Year:          year,
			CostA:         comparison.SeriesA[year].Accumulated,
			CostB:         comparison.SeriesB[year].Accumulated,
			Diff:          comparison.Diff(year),
			WithinHorizon: year <= comparison.Horizon,
			Notes:         normalizeNotes(result.Notes[year]),
		})
	}

	return comparisonResult{
		Name:         result.Name,
		NameA:        result.NameA,
		NameB:        result.NameB,
		Horizon:      comparison.Horizon,
		Margin:       comparison.Margin,
		Rows:         rows,
		Crossing:     comparison.Crossing,
		SummaryA:     comparison.SummaryA,
		SummaryB:     comparison.SummaryB,
		Verdict:      result.Verdict,
		VerdictText:  output.VerdictLine(result),
		Breakdown:    breakdown{A: breakdownA, B: breakdownB},
		Residuals:    residualSchedules{A: result.ResidualsA, B: result.ResidualsB},
		Optimization: result.Optimization,
	}, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.requestLogger(r).Error("forecast request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, r, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.requestLogger(r).Error("failed to write JSON response", zap.Error(err))
	}
}

func normalizeNotes(notes []string) []string {
	if len(notes) == 0 {
		return nil
	}

	filtered := make([]string, 0, len(notes))
	for _, note := range notes {
		if trimmed := strings.TrimSpace(note); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	}
	return false
}
