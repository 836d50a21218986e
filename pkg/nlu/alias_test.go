package nlu

import "testing"

func TestCanonicalize(t *testing.T) {
	r := NewAliasResolver(map[string]string{"ShowWeather": "chat.weather"})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"default alias", "gettime", "sys.time.now"},
		{"case-insensitive", "GetTime", "sys.time.now"},
		{"extra alias", "showweather", "chat.weather"},
		{"extra alias original case", "ShowWeather", "chat.weather"},
		{"unmapped passes through", "iot.print.label", "iot.print.label"},
		{"canonical passes through", "sys.time.now", "sys.time.now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Canonicalize(tt.in); got != tt.want {
				t.Errorf("nlu:alias_test - Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	r := NewAliasResolver(nil)
	for _, name := range []string{"gettime", "hello", "chat.greet", "iot.light.on", "completely.unknown"} {
		once := r.Canonicalize(name)
		twice := r.Canonicalize(once)
		if once != twice {
			t.Errorf("nlu:alias_test - not idempotent for %q: %q then %q", name, once, twice)
		}
	}
}

func TestCanonicalize_ExtraOverridesDefault(t *testing.T) {
	r := NewAliasResolver(map[string]string{"gettime": "sys.clock.read"})
	if got := r.Canonicalize("gettime"); got != "sys.clock.read" {
		t.Errorf("nlu:alias_test - override ignored: got %q", got)
	}
}

func TestLegacyNames(t *testing.T) {
	r := NewAliasResolver(nil)
	legacy := r.LegacyNames("chat.greet")

	found := make(map[string]bool, len(legacy))
	for _, l := range legacy {
		found[l] = true
	}
	if !found["greeting"] || !found["hello"] {
		t.Errorf("nlu:alias_test - LegacyNames(chat.greet) = %v, want greeting and hello", legacy)
	}
	if got := r.LegacyNames("no.aliases.here"); len(got) != 0 {
		t.Errorf("nlu:alias_test - expected no legacy names, got %v", got)
	}
}

func TestLegacyNames_SortedAndStable(t *testing.T) {
	r := NewAliasResolver(map[string]string{
		"zz-old-greet": "chat.greet",
		"aa-old-greet": "chat.greet",
	})

	want := []string{"aa-old-greet", "greeting", "hello", "zz-old-greet"}
	for i := 0; i < 5; i++ {
		got := r.LegacyNames("chat.greet")
		if len(got) != len(want) {
			t.Fatalf("nlu:alias_test - LegacyNames = %v, want %v", got, want)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("nlu:alias_test - LegacyNames = %v, want sorted %v", got, want)
			}
		}
	}
}
