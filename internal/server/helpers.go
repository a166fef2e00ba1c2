package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/IOHprofiler/IOHexperimenter-sub005/internal/experiment"
)

// maxConfigSize bounds the body of a job request.
const maxConfigSize = 1 << 20

// decodeJobConfig reads a JSON experiment from r. Fields the request leaves
// out take the defaults of the requested family.
func decodeJobConfig(r io.Reader) (JobConfig, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxConfigSize))
	if err != nil {
		return JobConfig{}, fmt.Errorf("failed to read request: %w", err)
	}

	var probe struct {
		Family string `json:"family"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return JobConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}

	config := experiment.Defaults(probe.Family)
	if err := json.Unmarshal(data, &config); err != nil {
		return JobConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := config.Validate(); err != nil {
		return JobConfig{}, err
	}
	return config, nil
}

// splitJobPath splits "/api/v1/jobs/<id>/<sub>" into id and sub.
func splitJobPath(path string) (id, sub string) {
	path = strings.Trim(strings.TrimPrefix(path, "/api/v1/jobs/"), "/")
	id, sub, _ = strings.Cut(path, "/")
	return id, sub
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
