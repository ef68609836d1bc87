// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

type sampleRequest struct {
	Action  string `cbor:"action"`
	Subject string `cbor:"subject,omitempty"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRequest{Action: "status", Subject: "ardour"}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleRequest
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	v := sampleRequest{Action: "ping"}
	first, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two Marshal calls on the same value produced different bytes")
	}
}

func TestEncoderDecoderRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(sampleRequest{Action: "stop"}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded sampleRequest
	if err := NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Action != "stop" {
		t.Errorf("decoded.Action = %q, want %q", decoded.Action, "stop")
	}
}

func TestRawMessageDefersDecoding(t *testing.T) {
	data, err := Marshal(sampleRequest{Action: "ping"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw RawMessage
	if err := Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal into RawMessage: %v", err)
	}

	var decoded sampleRequest
	if err := Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal from RawMessage: %v", err)
	}
	if decoded.Action != "ping" {
		t.Errorf("decoded.Action = %q, want %q", decoded.Action, "ping")
	}
}
