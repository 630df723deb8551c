// Package featureflags evaluates operational toggles defined in a simple
// key=value list. Example: "admin_feed=on,open_registration=off".
package featureflags

import "strings"

// Manager holds parsed flag state. With a single operator there is no
// per-user rollout; flags are plain on/off switches.
type Manager struct {
	flags map[string]bool
}

// NewManager creates a manager from a comma-separated config string.
// Malformed pairs are skipped.
func NewManager(raw string) *Manager {
	out := make(map[string]bool)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := normalize(parts[0])
		if key == "" {
			continue
		}

		switch normalize(parts[1]) {
		case "on", "true", "1":
			out[key] = true
		case "off", "false", "0":
			out[key] = false
		}
	}

	return &Manager{flags: out}
}

// Enabled reports whether a flag is switched on. Unknown flags are off.
func (m *Manager) Enabled(name string) bool {
	if m == nil {
		return false
	}
	return m.flags[normalize(name)]
}

// Snapshot returns the evaluated state of every configured flag.
func (m *Manager) Snapshot() map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name, enabled := range m.flags {
		out[name] = enabled
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
