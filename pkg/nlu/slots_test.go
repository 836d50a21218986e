package nlu

import "testing"

func TestExtractSlots(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			name: "action device location",
			text: "Turn on the light in the living room",
			want: map[string]string{"action": "on", "device": "light", "location": "livingroom"},
		},
		{
			name: "off phrase wins over bare on",
			text: "please turn off the fan",
			want: map[string]string{"action": "off", "device": "fan"},
		},
		{
			name: "case-insensitive containment",
			text: "SWITCH ON the Kitchen LAMP",
			want: map[string]string{"action": "on", "device": "lamp", "location": "kitchen"},
		},
		{
			name: "no signals",
			text: "tell me a joke",
			want: map[string]string{},
		},
		{
			name: "empty input",
			text: "",
			want: map[string]string{},
		},
		{
			name: "location whitespace stripped",
			text: "dim the dining room light",
			want: map[string]string{"action": "dim", "device": "light", "location": "diningroom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSlots(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("nlu:slots_test - ExtractSlots(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("nlu:slots_test - slot %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestDeriveDomain(t *testing.T) {
	tests := []struct {
		name      string
		canonical string
		slots     map[string]string
		want      string
	}{
		{"iot prefix", "iot.light.on", nil, "iot"},
		{"chat prefix", "chat.greet", nil, "chat"},
		{"action slot implies iot", "printer.start", map[string]string{"action": "start"}, "iot"},
		{"no prefix no slots", "sys.time.now", nil, "other"},
		{"iot prefix beats empty slots", "iot.print.label", map[string]string{}, "iot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveDomain(tt.canonical, tt.slots); got != tt.want {
				t.Errorf("nlu:slots_test - DeriveDomain(%q, %v) = %q, want %q", tt.canonical, tt.slots, got, tt.want)
			}
		})
	}
}

func TestRecognize_FullBoundary(t *testing.T) {
	e := NewEngine(EngineOpts{})
	e.Load(testDefinitions())
	r := NewAliasResolver(nil)

	rec := Recognize(e, r, "turn on the light in the living room")
	if rec.Intent != "iot.light.on" {
		t.Errorf("nlu:slots_test - intent = %q, want iot.light.on", rec.Intent)
	}
	if rec.Domain != "iot" {
		t.Errorf("nlu:slots_test - domain = %q, want iot", rec.Domain)
	}
	if rec.Slots["location"] != "livingroom" {
		t.Errorf("nlu:slots_test - location slot = %q, want livingroom", rec.Slots["location"])
	}

	rec = Recognize(e, r, "")
	if rec.Intent != IntentUnknown || rec.Score != 0.0 {
		t.Errorf("nlu:slots_test - empty input gave (%q, %v)", rec.Intent, rec.Score)
	}
}
