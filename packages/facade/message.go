package facade

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Message types.
const (
	TypeIdentify = "identify"
	TypeTrack    = "track"
	TypePage     = "page"
	TypeScreen   = "screen"
	TypeGroup    = "group"
	TypeAlias    = "alias"
)

// Channels a message can originate from.
const (
	ChannelServer = "server"
	ChannelClient = "client"
	ChannelMobile = "mobile"
)

// Types lists every supported message type in a stable order.
var Types = []string{TypeIdentify, TypeTrack, TypePage, TypeScreen, TypeGroup, TypeAlias}

// Channels lists every channel in a stable order.
var Channels = []string{ChannelServer, ChannelClient, ChannelMobile}

// ErrUnknownType is returned when a variant name has no constructor.
var ErrUnknownType = errors.New("unknown message type")

// Message is the canonical representation of an analytics event.
type Message interface {
	Type() string
	Obj() map[string]any
	Channel() string
	Field(path string) gjson.Result
	UserID() string
	AnonymousID() string
	MessageID() string
	Timestamp() time.Time
	Enabled(integration string) bool
	JSON() string
}

// Facade implements the accessors shared by every message variant.
type Facade struct {
	typ string
	obj map[string]any
}

func newFacade(typ string, obj map[string]any) *Facade {
	if obj == nil {
		obj = make(map[string]any)
	}
	return &Facade{typ: typ, obj: obj}
}

func (f *Facade) Type() string {
	return f.typ
}

// Obj returns the underlying map. It is not a copy.
func (f *Facade) Obj() map[string]any {
	return f.obj
}

func (f *Facade) Channel() string {
	return f.str("channel")
}

// Field looks up a dotted gjson path in the raw message, e.g. "context.ip".
func (f *Facade) Field(path string) gjson.Result {
	return gjson.Get(f.JSON(), path)
}

func (f *Facade) UserID() string {
	return f.str("userId")
}

func (f *Facade) AnonymousID() string {
	return f.str("anonymousId")
}

func (f *Facade) MessageID() string {
	return f.str("messageId")
}

// Timestamp parses the timestamp field. It accepts a time.Time or an RFC 3339
// string and returns the zero time otherwise.
func (f *Facade) Timestamp() time.Time {
	switch v := f.obj["timestamp"].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Enabled reports whether the message opted in to the named integration via the
// "integrations" map. Integrations are enabled unless explicitly set to false,
// and "All": false disables everything not listed.
func (f *Facade) Enabled(integration string) bool {
	opts, ok := f.obj["integrations"].(map[string]any)
	if !ok {
		return true
	}
	if v, ok := opts[integration]; ok {
		return truthy(v)
	}
	if v, ok := opts["All"]; ok {
		return truthy(v)
	}
	return true
}

// JSON returns the raw message encoded as JSON, or "{}" if it cannot be encoded.
func (f *Facade) JSON() string {
	data, err := json.Marshal(f.obj)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func (f *Facade) str(key string) string {
	if v, ok := f.obj[key].(string); ok {
		return v
	}
	return ""
}

func (f *Facade) mapField(key string) map[string]any {
	if v, ok := f.obj[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case nil:
		return false
	default:
		// option objects ({"Name": {...}}) count as enabled
		return true
	}
}

var constructors = map[string]func(map[string]any) Message{
	"Identify": func(obj map[string]any) Message { return NewIdentify(obj) },
	"Track":    func(obj map[string]any) Message { return NewTrack(obj) },
	"Page":     func(obj map[string]any) Message { return NewPage(obj) },
	"Screen":   func(obj map[string]any) Message { return NewScreen(obj) },
	"Group":    func(obj map[string]any) Message { return NewGroup(obj) },
	"Alias":    func(obj map[string]any) Message { return NewAlias(obj) },
}

// New builds the variant named by its capitalized type ("Track", "Identify", ...).
func New(variant string, obj map[string]any) (Message, error) {
	ctor, ok := constructors[variant]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, variant)
	}
	return ctor(obj), nil
}

// VariantName maps a message type to its constructor name: "track" -> "Track".
func VariantName(typ string) string {
	if typ == "" {
		return ""
	}
	return strings.ToUpper(typ[:1]) + typ[1:]
}
