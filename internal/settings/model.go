package settings

import (
	"encoding/json"
	"time"
)

// Setting is a schema-less site document stored under a string key,
// for example homepage sections or footer links. The value is opaque
// JSON; version increments on every write so clients can detect change.
type Setting struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	Version   int64           `json:"version"`
	UpdatedBy int64           `json:"-"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type SettingForm struct {
	Value json.RawMessage `json:"value" validate:"required"`
}
