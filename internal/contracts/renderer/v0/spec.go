// Package v0 is the wire contract of the external HTTP render service.
package v0

// RenderSpec asks the renderer to mux a still image and an audio track into an MP4.
// All paths are object keys in the storage shared by the API and the renderer.
type RenderSpec struct {
	JobID  string `json:"job_id"`
	Inputs struct {
		AudioObjectKey string `json:"audio_object_key"`
		ImageObjectKey string `json:"image_object_key"`
	} `json:"inputs"`
	Params struct {
		FPS int `json:"fps"`
	} `json:"params"`
	Output struct {
		VideoObjectKey string `json:"video_object_key"`
	} `json:"output"`
}

// RenderResult is the renderer's reply. VideoObjectKey may differ from the requested key
// when the backing store assigns its own ids.
type RenderResult struct {
	VideoObjectKey string  `json:"video_object_key"`
	DurationSec    float64 `json:"duration_sec,omitempty"`
}
