package analysis

import (
	"net/http"
	"testing"

	"github.com/roadwatch/roadwatch/internal/detector"
)

func raw(status int, body string) *detector.RawResponse {
	return &detector.RawResponse{StatusCode: status, Body: []byte(body)}
}

func TestNormalize_EmptyResponseFails(t *testing.T) {
	tests := []struct {
		name string
		in   *detector.RawResponse
	}{
		{"nil response", nil},
		{"empty body", raw(http.StatusOK, "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(tt.in)
			if out.Kind != OutcomeFailure {
				t.Fatalf("kind = %v, want failure", out.Kind)
			}
			if out.Reason == "" {
				t.Fatalf("failure outcome missing reason")
			}
		})
	}
}

func TestNormalize_WarmingMarkers(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			"stub message with note",
			`{"message":"Video upload endpoint ready","filename":"a.mp4","note":"Full processing will be available once models finish loading"}`,
		},
		{
			"503 error envelope",
			`{"error":"ML models are still loading. Please try again in a moment.","loading_error":""}`,
		},
		{
			"explicit status marker",
			`{"status":"models_loading"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(raw(http.StatusServiceUnavailable, tt.body))
			if out.Kind != OutcomeWarming {
				t.Fatalf("kind = %v, want warming (reason=%q)", out.Kind, out.Reason)
			}
			if out.Result != nil {
				t.Fatalf("warming outcome carries a result: %+v", out.Result)
			}
		})
	}
}

func TestNormalize_SummaryAcceptedAsIs(t *testing.T) {
	body := `{
		"total_frames": 300,
		"processed_frames": 295,
		"results": [{"frame":1,"id":7,"risk_level":"RISKY","behavior_score":42.5,"ml_prediction":"RISKY"}],
		"summary": {"total_unique_vehicles": 3, "dangerous_vehicles": 1},
		"video_id": "vid-1"
	}`
	out := Normalize(raw(http.StatusOK, body))
	if out.Kind != OutcomeSuccess {
		t.Fatalf("kind = %v, want success (reason=%q)", out.Kind, out.Reason)
	}
	r := out.Result
	if r.TotalFrames != 300 || r.ProcessedFrames != 295 {
		t.Fatalf("frames = %d/%d, want 295/300", r.ProcessedFrames, r.TotalFrames)
	}
	// Missing numeric summary fields are coerced to zero, present ones kept.
	want := Summary{TotalUniqueVehicles: 3, DangerousVehicles: 1, RiskyVehicles: 0, SafeVehicles: 0}
	if r.Summary != want {
		t.Fatalf("summary = %+v, want %+v", r.Summary, want)
	}
	if len(r.Detections) != 1 || r.Detections[0].VehicleID != 7 {
		t.Fatalf("detections = %+v, want vehicle 7", r.Detections)
	}
	if r.VideoID != "vid-1" {
		t.Fatalf("video id = %q, want vid-1", r.VideoID)
	}
}

func TestNormalize_SummaryWithEmptyDetections(t *testing.T) {
	out := Normalize(raw(http.StatusOK, `{"summary":{"total_unique_vehicles":0}}`))
	if out.Kind != OutcomeSuccess {
		t.Fatalf("kind = %v, want success", out.Kind)
	}
	if out.Result.Detections == nil || len(out.Result.Detections) != 0 {
		t.Fatalf("detections = %#v, want empty non-nil slice", out.Result.Detections)
	}
}

func TestNormalize_SynthesizesSummaryFromResults(t *testing.T) {
	body := `{"results":[
		{"id":1,"risk_level":"DANGEROUS"},
		{"id":1,"risk_level":"DANGEROUS"},
		{"id":2,"risk_level":"SAFE"}
	]}`
	out := Normalize(raw(http.StatusOK, body))
	if out.Kind != OutcomeSuccess {
		t.Fatalf("kind = %v, want success (reason=%q)", out.Kind, out.Reason)
	}
	want := Summary{TotalUniqueVehicles: 2, DangerousVehicles: 2, RiskyVehicles: 0, SafeVehicles: 1}
	if out.Result.Summary != want {
		t.Fatalf("summary = %+v, want %+v", out.Result.Summary, want)
	}
}

func TestNormalize_UnlabelledRecordsCountAsSafe(t *testing.T) {
	out := Normalize(raw(http.StatusOK, `{"results":[{"id":5},{"id":6,"risk_level":"RISKY"}]}`))
	if out.Kind != OutcomeSuccess {
		t.Fatalf("kind = %v, want success", out.Kind)
	}
	want := Summary{TotalUniqueVehicles: 2, RiskyVehicles: 1, SafeVehicles: 1}
	if out.Result.Summary != want {
		t.Fatalf("summary = %+v, want %+v", out.Result.Summary, want)
	}
}

func TestNormalize_MalformedAndVacantPayloadsFail(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{broken`},
		{"no summary no results", `{"filename":"a.mp4"}`},
		{"empty results no summary", `{"results":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(raw(http.StatusOK, tt.body))
			if out.Kind != OutcomeFailure {
				t.Fatalf("kind = %v, want failure", out.Kind)
			}
		})
	}
}

func TestNormalize_IsDeterministic(t *testing.T) {
	body := `{"results":[{"id":1,"risk_level":"DANGEROUS"},{"id":2}]}`
	first := Normalize(raw(http.StatusOK, body))
	second := Normalize(raw(http.StatusOK, body))
	if first.Kind != second.Kind || first.Reason != second.Reason {
		t.Fatalf("outcomes differ: %+v vs %+v", first, second)
	}
	if first.Result.Summary != second.Result.Summary {
		t.Fatalf("summaries differ: %+v vs %+v", first.Result.Summary, second.Result.Summary)
	}
}

func TestSummary_Alert(t *testing.T) {
	tests := []struct {
		name    string
		summary Summary
		want    AlertLevel
	}{
		{"any dangerous is high", Summary{TotalUniqueVehicles: 10, DangerousVehicles: 1}, AlertHigh},
		{"many risky is medium", Summary{TotalUniqueVehicles: 10, RiskyVehicles: 4}, AlertMedium},
		{"few risky is low", Summary{TotalUniqueVehicles: 10, RiskyVehicles: 3}, AlertLow},
		{"all safe is low", Summary{TotalUniqueVehicles: 5, SafeVehicles: 5}, AlertLow},
		{"empty summary is low", Summary{}, AlertLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.summary.Alert(); got != tt.want {
				t.Errorf("Alert() = %v, want %v", got, tt.want)
			}
		})
	}
}
