// ABOUTME: Tests for Opus payload decoding
// ABOUTME: Tests packet framing validation
package audio

import (
	"errors"
	"testing"
)

func TestDecodeOpusEmptyPayload(t *testing.T) {
	buf, err := DecodeOpus(nil, 24000)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(buf.Samples) != 0 {
		t.Errorf("expected empty buffer, got %d samples", len(buf.Samples))
	}
}

func TestDecodeOpusTruncatedHeader(t *testing.T) {
	_, err := DecodeOpus([]byte{0x01}, 24000)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for truncated header, got %v", err)
	}
}

func TestDecodeOpusTruncatedBody(t *testing.T) {
	// Header claims a 16-byte packet but only 2 bytes follow
	_, err := DecodeOpus([]byte{0x10, 0x00, 0xaa, 0xbb}, 24000)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for truncated body, got %v", err)
	}
}
