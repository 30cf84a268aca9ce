// Package featureflags evaluates runtime toggles configured through FEATURE_FLAGS.
package featureflags

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Known flags.
const (
	// ServerSearch routes post search to the database instead of filtering the full list in memory.
	ServerSearch = "server_search"
	// HideDrafts removes unpublished posts from public listings.
	HideDrafts = "hide_drafts"
)

// Set is a parsed flag list such as "server_search=on,hide_drafts=25%".
// A nil Set has every flag off.
type Set struct {
	values map[string]string
}

// Parse builds a Set from a comma separated name=value list. Malformed
// entries are skipped.
func Parse(raw string) *Set {
	values := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		name, value = clean(name), clean(value)
		if name == "" || value == "" {
			continue
		}
		values[name] = value
	}
	return &Set{values: values}
}

// On reports whether a flag is on for everyone. Percentage rollouts only
// count as on at 100%.
func (s *Set) On(name string) bool {
	return s.Enabled(name, "")
}

// Enabled evaluates a flag for a subject key such as a client address.
// Values are on/true/1, off/false/0 or N% for a stable rollout by key.
// Rollouts below 100% are off for an empty key.
func (s *Set) Enabled(name, key string) bool {
	if s == nil {
		return false
	}
	value, ok := s.values[clean(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pct, ok := percent(value)
	switch {
	case !ok || pct <= 0:
		return false
	case pct >= 100:
		return true
	case key == "":
		return false
	}
	return bucket(clean(name), key) < pct
}

// Names returns the configured flag names in sorted order.
func (s *Set) Names() []string {
	if s == nil {
		return []string{}
	}
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot evaluates every configured flag for key.
func (s *Set) Snapshot(key string) map[string]bool {
	out := make(map[string]bool)
	for _, name := range s.Names() {
		out[name] = s.Enabled(name, key)
	}
	return out
}

func percent(value string) (int, bool) {
	digits, ok := strings.CutSuffix(value, "%")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name, key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name + ":" + key))
	return int(h.Sum32() % 100)
}
