package search

import (
	"bytes"
	"encoding/json"
)

// OperatingSystem is the row type of the operating-systems resource.
type OperatingSystem struct {
	ID          RecordID `json:"id,omitempty"`
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Kernel      string   `json:"kernel"`
	ReleaseDate string   `json:"releaseDate"`
	Usages      int64    `json:"usages"`
}

// RecordID holds a backend identifier, numeric for relational stores and textual for document stores.
type RecordID string

// UnmarshalJSON accepts a JSON string or number.
func (r *RecordID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = RecordID(n.String())
	return nil
}
