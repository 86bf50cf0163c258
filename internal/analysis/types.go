package analysis

// RiskLevel classifies a vehicle's observed behavior.
type RiskLevel string

const (
	RiskSafe      RiskLevel = "SAFE"
	RiskRisky     RiskLevel = "RISKY"
	RiskDangerous RiskLevel = "DANGEROUS"
)

// VehicleDetection is one per-frame record produced by the remote service.
// Records are immutable once received.
type VehicleDetection struct {
	Frame         int       `json:"frame"`
	VehicleID     int       `json:"id"`
	RiskLevel     RiskLevel `json:"risk_level"`
	BehaviorScore float64   `json:"behavior_score"`
	MLPrediction  string    `json:"ml_prediction"`
}

// Summary aggregates per-vehicle risk counts. The server is expected to keep
// dangerous+risky+safe <= total, but that is not enforced on its side, so
// nothing here may assume it.
type Summary struct {
	TotalUniqueVehicles int `json:"total_unique_vehicles"`
	DangerousVehicles   int `json:"dangerous_vehicles"`
	RiskyVehicles       int `json:"risky_vehicles"`
	SafeVehicles        int `json:"safe_vehicles"`
}

// Result is the canonical analysis shape every component downstream of the
// normalizer consumes. A new analysis replaces the previous Result wholesale.
type Result struct {
	TotalFrames     int                `json:"total_frames"`
	ProcessedFrames int                `json:"processed_frames"`
	Detections      []VehicleDetection `json:"results"`
	Summary         Summary            `json:"summary"`
	VideoID         string             `json:"video_id"`
}

// AlertLevel is the overall assessment derived from a summary.
type AlertLevel string

const (
	AlertLow    AlertLevel = "LOW"
	AlertMedium AlertLevel = "MEDIUM"
	AlertHigh   AlertLevel = "HIGH"
)

// Alert derives the overall risk: HIGH when any vehicle is dangerous, MEDIUM
// when more than 30% of vehicles are risky, LOW otherwise.
func (s Summary) Alert() AlertLevel {
	switch {
	case s.DangerousVehicles > 0:
		return AlertHigh
	case float64(s.RiskyVehicles) > float64(s.TotalUniqueVehicles)*0.3:
		return AlertMedium
	default:
		return AlertLow
	}
}
