package nlu

import (
	"sort"
	"strings"
)

// defaultAliases maps legacy intent names to canonical ones. The definition
// manifest may extend or override these.
var defaultAliases = map[string]string{
	"gettime":   "sys.time.now",
	"time":      "sys.time.now",
	"greeting":  "chat.greet",
	"hello":     "chat.greet",
	"goodbye":   "chat.bye",
	"bye":       "chat.bye",
	"smalltalk": "chat.reply",
	"lighton":   "iot.light.on",
	"lightoff":  "iot.light.off",
}

// AliasResolver translates legacy or engine-emitted intent names into the
// canonical vocabulary. Lookup is case-insensitive; unmapped names pass
// through unchanged.
type AliasResolver struct {
	aliases map[string]string
}

// NewAliasResolver builds a resolver from the default alias table merged with
// extra entries (extra wins on conflict). Keys are lowercased at build time.
func NewAliasResolver(extra map[string]string) *AliasResolver {
	aliases := make(map[string]string, len(defaultAliases)+len(extra))
	for k, v := range defaultAliases {
		aliases[strings.ToLower(k)] = v
	}
	for k, v := range extra {
		aliases[strings.ToLower(k)] = v
	}
	return &AliasResolver{aliases: aliases}
}

// Canonicalize maps name to its canonical form. Idempotent: canonical names
// are returned unchanged.
func (r *AliasResolver) Canonicalize(name string) string {
	if canonical, ok := r.aliases[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}

// LegacyNames returns every alias that canonicalizes to the given name,
// sorted. Used for legacy-keyed response lookups, which try candidates in
// order and so need a stable sequence.
func (r *AliasResolver) LegacyNames(canonical string) []string {
	var legacy []string
	for alias, target := range r.aliases {
		if target == canonical {
			legacy = append(legacy, alias)
		}
	}
	sort.Strings(legacy)
	return legacy
}
