package domain

import (
	"encoding/json"
	"time"
)

// SiteContent is one editable document of the marketing-site CMS, keyed by a
// stable slug ("home.hero", "faq"). Value is an opaque JSON document owned by
// the frontend; the backend only stores and serves it.
type SiteContent struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}
