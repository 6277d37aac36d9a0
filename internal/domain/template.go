package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateID accepts either a JSON string or a JSON number and is always
// written back as a string.
type TemplateID string

func (id *TemplateID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TemplateID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("template id must be a string or a number: %w", err)
	}
	*id = TemplateID(n.String())
	return nil
}

// Template is a reusable container definition.
type Template struct {
	ID            TemplateID        `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Image         string            `json:"image"`
	Ports         []PortBinding     `json:"ports"`
	Env           map[string]string `json:"env"`
	Volumes       []VolumeMount     `json:"volumes"`
	RestartPolicy string            `json:"restart_policy,omitempty"`
}

// Validate reports missing required fields.
func (t Template) Validate() error {
	switch {
	case t.ID == "":
		return fmt.Errorf("template id is required: %w", ErrInvalid)
	case t.Name == "":
		return fmt.Errorf("template name is required: %w", ErrInvalid)
	case t.Image == "":
		return fmt.Errorf("template image is required: %w", ErrInvalid)
	}
	return nil
}
