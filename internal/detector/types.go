package detector

import "encoding/json"

// RawResponse carries a server reply without interpreting it. Any HTTP status
// the server produced, including 4xx and 5xx, is delivered here as data so the
// caller can classify warming responses separately from transport failures.
type RawResponse struct {
	StatusCode int
	Body       json.RawMessage
}

// UploadProgress reports transmission progress for a single upload. Percentage
// is round(BytesLoaded*100/BytesTotal); a tick is only emitted when the total
// size is known.
type UploadProgress struct {
	BytesLoaded int64
	BytesTotal  int64
	Percentage  int
}

// HealthStatus mirrors the payload returned by /health.
type HealthStatus struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ModelsLoaded bool   `json:"models_loaded"`
	LoadingError string `json:"loading_error"`
}

// SampleVideo describes a pre-loaded demo clip listed by /sample_videos.
type SampleVideo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Duration    string `json:"duration"`
	Vehicles    int    `json:"vehicles"`
	RiskLevel   string `json:"riskLevel"`
}
