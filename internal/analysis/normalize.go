package analysis

import (
	"encoding/json"
	"strings"

	"github.com/roadwatch/roadwatch/internal/detector"
)

// OutcomeKind tags the variant of a normalized server reply.
type OutcomeKind int

const (
	// OutcomeFailure means the reply could not be turned into a Result.
	OutcomeFailure OutcomeKind = iota
	// OutcomeWarming means the service is reachable but its models are still
	// loading. Distinct from failure: the user should retry shortly.
	OutcomeWarming
	// OutcomeSuccess carries a canonical Result.
	OutcomeSuccess
)

// Outcome is the normalized form of a raw server reply.
type Outcome struct {
	Kind   OutcomeKind
	Result *Result // set when Kind == OutcomeSuccess
	Reason string  // set when Kind == OutcomeFailure
}

// rawPayload is the loose superset of every reply shape the service has been
// observed to produce: full results, results without a summary, warming
// notices from partially deployed instances, and bare error envelopes.
type rawPayload struct {
	Message string `json:"message"`
	Note    string `json:"note"`
	Error   string `json:"error"`
	Status  string `json:"status"`

	TotalFrames     int                `json:"total_frames"`
	ProcessedFrames int                `json:"processed_frames"`
	Results         []VehicleDetection `json:"results"`
	Summary         *looseSummary      `json:"summary"`
	VideoID         string             `json:"video_id"`
}

// looseSummary tolerates missing fields, which are coerced to zero.
type looseSummary struct {
	TotalUniqueVehicles *int `json:"total_unique_vehicles"`
	DangerousVehicles   *int `json:"dangerous_vehicles"`
	RiskyVehicles       *int `json:"risky_vehicles"`
	SafeVehicles        *int `json:"safe_vehicles"`
}

// Normalize converts a raw server reply into a tagged Outcome. It is a pure
// function: identical input always yields an identical outcome, and nothing
// downstream sees a reply that has not passed through here.
//
// Branches are checked in order, first match wins:
//
//  1. absent/empty reply            -> Failure
//  2. any warming marker            -> Warming
//  3. summary present               -> Success (missing counts coerced to 0)
//  4. non-empty detection sequence  -> Success (summary synthesized)
//  5. anything else                 -> Failure
func Normalize(raw *detector.RawResponse) Outcome {
	if raw == nil || len(raw.Body) == 0 {
		return Outcome{Kind: OutcomeFailure, Reason: "empty response from server"}
	}

	var payload rawPayload
	if err := json.Unmarshal(raw.Body, &payload); err != nil {
		return Outcome{Kind: OutcomeFailure, Reason: "malformed response: " + err.Error()}
	}

	if isWarming(payload) {
		return Outcome{Kind: OutcomeWarming}
	}

	if payload.Summary != nil {
		result := resultFrom(payload)
		result.Summary = Summary{
			TotalUniqueVehicles: coerce(payload.Summary.TotalUniqueVehicles),
			DangerousVehicles:   coerce(payload.Summary.DangerousVehicles),
			RiskyVehicles:       coerce(payload.Summary.RiskyVehicles),
			SafeVehicles:        coerce(payload.Summary.SafeVehicles),
		}
		return Outcome{Kind: OutcomeSuccess, Result: result}
	}

	if len(payload.Results) > 0 {
		result := resultFrom(payload)
		result.Summary = synthesizeSummary(payload.Results)
		return Outcome{Kind: OutcomeSuccess, Result: result}
	}

	return Outcome{Kind: OutcomeFailure, Reason: "no vehicles detected or malformed response"}
}

// isWarming recognizes the three reply shapes a cold instance produces: the
// stub "endpoint ready" message with a models-loading note, the 503 error
// envelope, and the explicit status marker.
func isWarming(p rawPayload) bool {
	if strings.Contains(p.Message, "endpoint ready") && strings.Contains(p.Note, "models") {
		return true
	}
	if strings.Contains(p.Error, "models are still loading") {
		return true
	}
	return p.Status == "models_loading"
}

func resultFrom(p rawPayload) *Result {
	detections := p.Results
	if detections == nil {
		detections = []VehicleDetection{}
	}
	return &Result{
		TotalFrames:     p.TotalFrames,
		ProcessedFrames: p.ProcessedFrames,
		Detections:      detections,
		VideoID:         p.VideoID,
	}
}

// synthesizeSummary rebuilds the summary a half-formed reply omitted: unique
// vehicles counted by id, one tally per record by risk level, unlabelled
// records treated as SAFE.
func synthesizeSummary(detections []VehicleDetection) Summary {
	vehicles := make(map[int]struct{}, len(detections))
	var summary Summary
	for _, d := range detections {
		vehicles[d.VehicleID] = struct{}{}
		switch d.RiskLevel {
		case RiskDangerous:
			summary.DangerousVehicles++
		case RiskRisky:
			summary.RiskyVehicles++
		default:
			summary.SafeVehicles++
		}
	}
	summary.TotalUniqueVehicles = len(vehicles)
	return summary
}

func coerce(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
