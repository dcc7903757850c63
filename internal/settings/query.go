package settings

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Get evaluates a gjson path against the JSON form of s, e.g.
// "selectedPackage.name" or "knownPackages.#.name". An empty path returns
// the whole document.
func Get(s *Settings, path string) (gjson.Result, error) {
	if s == nil {
		return gjson.Result{}, ErrNilSettings
	}
	data, err := json.Marshal(s)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("marshal settings: %w", err)
	}
	if path == "" {
		return gjson.ParseBytes(data), nil
	}
	r := gjson.GetBytes(data, path)
	if !r.Exists() {
		return r, fmt.Errorf("no value at %q", path)
	}
	return r, nil
}
