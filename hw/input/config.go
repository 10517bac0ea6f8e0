package input

import "fmt"

// Config maps each controller button to a keyboard key name.
type Config struct {
	Keys map[string]string `toml:"keys"`
}

func DefaultConfig() Config {
	return Config{
		Keys: map[string]string{
			"A":      "X",
			"B":      "Z",
			"Select": "Right Shift",
			"Start":  "Return",
			"Up":     "Up",
			"Down":   "Down",
			"Left":   "Left",
			"Right":  "Right",
		},
	}
}

// Mapping returns the key name of each button, in button order. Buttons
// missing from the configuration get the default key.
func (cfg Config) Mapping() ([NumButtons]string, error) {
	var keys [NumButtons]string
	def := DefaultConfig()
	for name, key := range cfg.Keys {
		b, ok := ButtonByName(name)
		if !ok {
			return keys, fmt.Errorf("input config: unknown button %q", name)
		}
		keys[b] = key
	}
	for b := range NumButtons {
		if keys[b] == "" {
			keys[b] = def.Keys[b.String()]
		}
	}
	return keys, nil
}
