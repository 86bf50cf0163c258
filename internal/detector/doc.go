// Package detector provides the HTTP client for the Vehicle Behavior
// Detector service.
//
// The client is deliberately thin. It owns only transport concerns: building
// requests, streaming the multipart upload with progress telemetry, and
// handing replies back unparsed. Interpretation of reply payloads lives in
// the analysis package, because the service's response shape is not stable
// across deployments and must be normalized in one place.
//
// Two behaviors are unusual for an HTTP client and intentional:
//
//   - Upload and ProcessSample return every HTTP status, including 503, as a
//     RawResponse rather than an error. A 503 with a models_loading marker
//     means "warming up", which is neither success nor failure, and only the
//     normalizer can tell.
//
//   - DeleteArtifact never returns an error. Artifact cleanup is best-effort
//     and fire-and-forget; failures are logged and must not block or alarm
//     the user.
//
// Requests carry a 5-minute timeout because video processing is synchronous
// from the caller's point of view: the /upload response arrives only after
// the whole clip has been analyzed.
package detector
