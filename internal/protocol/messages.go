// ABOUTME: Companion service message type definitions
// ABOUTME: Defines the JSON envelope and payload structs for the lesson link
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/coursely/coursely-go/internal/lesson"
)

// Message types exchanged with the companion service.
const (
	TypeClientHello  = "client/hello"
	TypeServerHello  = "server/hello"
	TypeGenerate     = "lesson/generate"
	TypeUnitContent  = "lesson/unit"
	TypeAudioPayload = "audio/payload"
	TypeServerError  = "server/error"
)

// Message is the top-level wrapper for all protocol messages.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Encode wraps a payload struct in a typed envelope.
func Encode(msgType string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	return json.Marshal(Message{Type: msgType, Payload: raw})
}

// ClientHello is sent by the player to initiate the handshake.
type ClientHello struct {
	ClientID   string      `json:"client_id"`
	Name       string      `json:"name"`
	Version    int         `json:"version"`
	DeviceInfo *DeviceInfo `json:"device_info,omitempty"`
}

// DeviceInfo contains device identification
type DeviceInfo struct {
	ProductName     string `json:"product_name"`
	Manufacturer    string `json:"manufacturer"`
	SoftwareVersion string `json:"software_version"`
}

// ServerHello is the service's response to client/hello.
type ServerHello struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// GenerateRequest asks the service to generate materials for a unit.
// Fire-and-forget: the player only reacts to the content that later
// arrives, never to this request's outcome.
type GenerateRequest struct {
	CourseID string `json:"course_id,omitempty"`
	UnitID   string `json:"unit_id"`
	Topic    string `json:"topic,omitempty"`
}

// UnitContent delivers a generated study unit.
type UnitContent struct {
	CourseID string      `json:"course_id,omitempty"`
	Unit     lesson.Unit `json:"unit"`
}

// AudioPayload delivers a unit's podcast audio. Data is base64 for pcm,
// raw bytes (JSON base64 field) for mp3 and opus.
type AudioPayload struct {
	UnitID     string `json:"unit_id"`
	Codec      string `json:"codec"`
	SampleRate int    `json:"sample_rate"`
	Data       string `json:"data,omitempty"`  // base64 PCM
	Bytes      []byte `json:"bytes,omitempty"` // encoded mp3/opus
}

// ServerError reports a service-side failure (generation failed, bad
// request). Non-fatal to the player.
type ServerError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
