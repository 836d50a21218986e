package commsutil

import (
	"testing"
)

const codecTestPrefix = "commsutil:codec_test"

func TestEncodePayload(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    string
		wantErr bool
	}{
		{
			name:  "route payload map",
			input: map[string]string{"text": "turn on the light"},
			want:  `{"text":"turn on the light"}`,
		},
		{
			name:  "ack fields",
			input: struct {
				Ok     bool   `json:"ok"`
				Intent string `json:"intent"`
			}{Ok: true, Intent: "sys.time.now"},
			want: `{"ok":true,"intent":"sys.time.now"}`,
		},
		{
			name:  "priority",
			input: 5,
			want:  "5",
		},
		{
			name:  "intent name",
			input: "chat.greet",
			want:  `"chat.greet"`,
		},
		{
			name:  "nil payload",
			input: nil,
			want:  "null",
		},
		{
			name:  "nested slots",
			input: map[string]interface{}{"slots": map[string]string{"action": "on"}},
			want:  `{"slots":{"action":"on"}}`,
		},
		{
			name:  "priority list",
			input: []int{0, 5, 9},
			want:  "[0,5,9]",
		},
		{
			name:    "channel is not serializable",
			input:   make(chan int),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodePayload(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("%s - expected error but got nil", codecTestPrefix)
				}
				return
			}

			if err != nil {
				t.Fatalf("%s - unexpected error: %v", codecTestPrefix, err)
			}

			got := string(data)
			if got != tt.want {
				t.Errorf("%s - EncodePayload() = %q, want %q", codecTestPrefix, got, tt.want)
			}
		})
	}
}

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		target  interface{}
		check   func(t *testing.T, target interface{})
		wantErr bool
	}{
		{
			name:   "decode route request fields",
			data:   `{"intent":"sys.time.now","correlationId":"corr-1"}`,
			target: &map[string]string{},
			check: func(t *testing.T, target interface{}) {
				m := target.(*map[string]string)
				if (*m)["intent"] != "sys.time.now" {
					t.Errorf("%s - expected intent sys.time.now, got %s", codecTestPrefix, (*m)["intent"])
				}
				if (*m)["correlationId"] != "corr-1" {
					t.Errorf("%s - expected correlationId corr-1, got %s", codecTestPrefix, (*m)["correlationId"])
				}
			},
		},
		{
			name: "decode ack",
			data: `{"ok":false,"error":{"code":"UNKNOWN_INTENT","message":"no handler"}}`,
			target: &struct {
				Ok    bool `json:"ok"`
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}{},
			check: func(t *testing.T, target interface{}) {
				a := target.(*struct {
					Ok    bool `json:"ok"`
					Error struct {
						Code    string `json:"code"`
						Message string `json:"message"`
					} `json:"error"`
				})
				if a.Ok {
					t.Errorf("%s - expected ok=false", codecTestPrefix)
				}
				if a.Error.Code != "UNKNOWN_INTENT" {
					t.Errorf("%s - expected code UNKNOWN_INTENT, got %s", codecTestPrefix, a.Error.Code)
				}
			},
		},
		{
			name:    "invalid json",
			data:    `{invalid}`,
			target:  &map[string]string{},
			wantErr: true,
		},
		{
			name:    "empty data",
			data:    "",
			target:  &map[string]string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DecodePayload([]byte(tt.data), tt.target)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("%s - expected error but got nil", codecTestPrefix)
				}
				return
			}

			if err != nil {
				t.Fatalf("%s - unexpected error: %v", codecTestPrefix, err)
			}

			if tt.check != nil {
				tt.check(t, tt.target)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// Mirrors the dispatch event document published after each envelope.
	// Declared locally: pkg/events imports this package.
	type dispatchEventDoc struct {
		EnvelopeID    string `json:"envelopeId"`
		Intent        string `json:"intent"`
		CorrelationID string `json:"correlationId"`
		Ok            bool   `json:"ok"`
		ErrorCode     string `json:"errorCode,omitempty"`
		DurationMs    int64  `json:"durationMs"`
	}

	original := dispatchEventDoc{
		EnvelopeID:    "env-42",
		Intent:        "iot.light.on",
		CorrelationID: "corr-42",
		Ok:            false,
		ErrorCode:     "HANDLER_FAULT",
		DurationMs:    12,
	}

	data, err := EncodePayload(original)
	if err != nil {
		t.Fatalf("%s - encode failed: %v", codecTestPrefix, err)
	}

	var decoded dispatchEventDoc
	err = DecodePayload(data, &decoded)
	if err != nil {
		t.Fatalf("%s - decode failed: %v", codecTestPrefix, err)
	}

	if decoded.EnvelopeID != original.EnvelopeID {
		t.Errorf("%s - EnvelopeID = %q, want %q", codecTestPrefix, decoded.EnvelopeID, original.EnvelopeID)
	}
	if decoded.Intent != original.Intent {
		t.Errorf("%s - Intent = %q, want %q", codecTestPrefix, decoded.Intent, original.Intent)
	}
	if decoded.CorrelationID != original.CorrelationID {
		t.Errorf("%s - CorrelationID = %q, want %q", codecTestPrefix, decoded.CorrelationID, original.CorrelationID)
	}
	if decoded.ErrorCode != original.ErrorCode {
		t.Errorf("%s - ErrorCode = %q, want %q", codecTestPrefix, decoded.ErrorCode, original.ErrorCode)
	}
	if decoded.DurationMs != original.DurationMs {
		t.Errorf("%s - DurationMs = %d, want %d", codecTestPrefix, decoded.DurationMs, original.DurationMs)
	}
}
