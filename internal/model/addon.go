package model

import (
	"encoding/json"
	"strings"
)

// Addon is one entry of a booking's selected_addons column. The backend stores
// the column as a JSON array whose entries are either a plain string or an
// object carrying a "name" field; anything else is tolerated and coerced to its
// raw JSON text rather than failing the row.
type Addon struct {
	Name string
}

// AddonList decodes the loosely-typed selected_addons payload. A null or
// missing column decodes to a nil list.
type AddonList []Addon

func (a *Addon) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Name = s
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Name != "" {
		a.Name = obj.Name
		return nil
	}

	// Malformed entry: fall back to the raw text so one bad addon never
	// drops the whole booking.
	a.Name = strings.TrimSpace(string(data))
	return nil
}

func (a Addon) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Name)
}

func (l *AddonList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*l = nil
		return nil
	}
	var addons []Addon
	if err := json.Unmarshal(data, &addons); err != nil {
		return err
	}
	*l = addons
	return nil
}
