package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// stripCodeFences removes a markdown code fence wrapper from a model
// response. Models in JSON mode still occasionally wrap output in
// ```json ... ``` blocks; the payload inside is what we want.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop a language hint ("json") up to the first newline.
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		first := strings.TrimSpace(trimmed[:idx])
		if first == "json" || first == "" {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")

	return strings.TrimSpace(trimmed)
}

// decodeStage parses a model response into the stage's expected JSON shape.
func decodeStage[T any](raw string) (T, error) {
	var out T
	payload := stripCodeFences(raw)
	if payload == "" {
		return out, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return out, nil
}
