package integration

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/inttest/packages/facade"
	"github.com/tidwall/gjson"
)

// Option describes one configuration setting of an integration.
type Option struct {
	Type        string `json:"type,omitempty"`
	Default     any    `json:"default,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`

	// Validate, when set, checks a present value.
	Validate func(value any, settings Settings) error `json:"-"`
}

// Requirement is a field that must be present before a message is sent.
// Path is rooted at "settings." or "message."; paths without a root refer to
// the message. An empty Method applies to every message type.
type Requirement struct {
	Method string `json:"method,omitempty"`
	Path   string `json:"path"`
}

func (r Requirement) String() string {
	if r.Method == "" {
		return r.Path
	}
	return r.Method + " " + r.Path
}

// ValidationError reports a message or settings field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Validate checks msg and settings against the declared requirements and options.
func (i *Integration) Validate(msg facade.Message, settings Settings) error {
	settingsJSON := "{}"
	if data, err := json.Marshal(settings); err == nil {
		settingsJSON = string(data)
	}

	for _, req := range i.cfg.Requirements {
		if req.Method != "" && req.Method != msg.Type() {
			continue
		}
		var value gjson.Result
		switch {
		case strings.HasPrefix(req.Path, "settings."):
			value = gjson.Get(settingsJSON, strings.TrimPrefix(req.Path, "settings."))
		default:
			value = msg.Field(strings.TrimPrefix(req.Path, "message."))
		}
		if empty(value) {
			return &ValidationError{Field: req.Path, Reason: "is required"}
		}
	}

	names := make([]string, 0, len(i.cfg.Options))
	for name := range i.cfg.Options {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		opt := i.cfg.Options[name]
		value, ok := settings[name]
		if !ok || value == nil || value == "" {
			if opt.Required {
				return &ValidationError{Field: "settings." + name, Reason: "is required"}
			}
			continue
		}
		if opt.Validate != nil {
			if err := opt.Validate(value, settings); err != nil {
				return &ValidationError{Field: "settings." + name, Reason: err.Error()}
			}
		}
	}
	return nil
}

func empty(v gjson.Result) bool {
	if !v.Exists() {
		return true
	}
	switch v.Type {
	case gjson.Null:
		return true
	case gjson.String:
		return v.Str == ""
	}
	return false
}
