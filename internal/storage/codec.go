package storage

import (
	"encoding/json"
	"fmt"
)

// loadJSON decodes the value under key into v. A missing key leaves v untouched.
func loadJSON(kv KV, key string, v any) error {
	raw, ok, err := kv.Get(key)
	if err != nil {
		return err
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	return nil
}

func saveJSON(kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(key, string(data))
}
