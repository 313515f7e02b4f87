package options

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tailscale/hujson"
)

// LoadFromHuJSON parses a HuJSON (JSON with comments and trailing
// commas) document into an Options value layered over the defaults.
// Fields the document omits keep their default value.
func LoadFromHuJSON(data []byte) (Options, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Options{}, fmt.Errorf("options: invalid HuJSON: %w", err)
	}
	return LoadFromJSON(standardized)
}

// LoadFromJSON parses a strict JSON document into an Options value
// layered over the defaults.
func LoadFromJSON(data []byte) (Options, error) {
	opts := NewDefaultOptions()
	if err := json.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("options: invalid JSON: %w", err)
	}
	// saveIntervalMs and ttlMs are milliseconds, but encoding/json decodes
	// a number into a time.Duration as nanoseconds. Both defaults are 0,
	// so scaling an omitted field leaves it unchanged.
	opts.Persistence.SaveInterval *= time.Millisecond
	opts.TTL *= time.Millisecond
	return opts, nil
}

// LoadFromFile reads path and parses it as HuJSON, so config files may
// use comments and trailing commas for operator convenience.
func LoadFromFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("options: reading config file: %w", err)
	}
	return LoadFromHuJSON(data)
}
