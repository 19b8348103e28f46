// Package events defines the messages the directory exchanges with other
// services over the broker. Every message is an Envelope: a tag naming what
// happened plus a payload whose shape depends on the tag.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnknownEvent is returned when decoding a message whose tag is not
	// one of the Tag constants.
	ErrUnknownEvent = errors.New("events: unknown event")
	// ErrMalformed is returned when a message or its payload cannot be
	// decoded, or misses a required field.
	ErrMalformed = errors.New("events: malformed message")
)

// Tag discriminates the payload of an Envelope.
type Tag string

const (
	UserCreated       Tag = "USER_CREATED"
	UserUpdated       Tag = "USER_UPDATED"
	UserDeleted       Tag = "USER_DELETED"
	EnterpriseCreated Tag = "ENTERPRISE_CREATED"
	EnterpriseUpdated Tag = "ENTERPRISE_UPDATED"
	EnterpriseDeleted Tag = "ENTERPRISE_DELETED"
)

// Older producers send an "event_id" with these values instead of "event".
const (
	legacyUpdateUser       = "UpdateUser"
	legacyUpdateEnterprise = "UpdateEnterpise"
)

// Tags lists every known tag.
func Tags() []Tag {
	return []Tag{UserCreated, UserUpdated, UserDeleted, EnterpriseCreated, EnterpriseUpdated, EnterpriseDeleted}
}

// Payload is implemented by the data types of this package only.
type Payload interface {
	Tag() Tag
	// EnterpriseID is the tenant the payload belongs to.
	EnterpriseID() string

	validate() error
}

func newPayload(t Tag) (Payload, error) {
	switch t {
	case UserCreated:
		return &UserCreatedData{}, nil
	case UserUpdated:
		return &UserUpdatedData{}, nil
	case UserDeleted:
		return &UserDeletedData{}, nil
	case EnterpriseCreated:
		return &EnterpriseCreatedData{}, nil
	case EnterpriseUpdated:
		return &EnterpriseUpdatedData{}, nil
	case EnterpriseDeleted:
		return &EnterpriseDeletedData{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, t)
}

// Envelope is one event message.
type Envelope struct {
	Event Tag
	Data  Payload

	// EventScope is the scope the user belonged to when the event happened.
	// Only set on user events.
	EventScope string
	// UpdateScope is the scope the user belongs to after an update.
	UpdateScope string

	// Stamped by the publisher.
	Origin    string
	StartDate time.Time
	MessageID string
}

// RoutingScope is the routing metadata of the envelope: the scope name for
// user events and the enterprise id for enterprise events.
func (e Envelope) RoutingScope() string {
	switch e.Event {
	case EnterpriseCreated, EnterpriseUpdated, EnterpriseDeleted:
		if e.Data != nil {
			return e.Data.EnterpriseID()
		}
		return ""
	}
	return e.EventScope
}

// EnterpriseID returns the tenant of the payload, or "" without one.
func (e Envelope) EnterpriseID() string {
	if e.Data == nil {
		return ""
	}
	return e.Data.EnterpriseID()
}

type wireEnvelope struct {
	Event       Tag             `json:"event,omitempty"`
	EventID     string          `json:"event_id,omitempty"`
	Data        json.RawMessage `json:"data"`
	EventScope  string          `json:"event_scope,omitempty"`
	UpdateScope string          `json:"update_scope,omitempty"`
	Origin      string          `json:"origin,omitempty"`
	StartDate   string          `json:"start_date,omitempty"`
	MessageID   string          `json:"message_id,omitempty"`
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Data == nil {
		return nil, fmt.Errorf("%w: envelope has no data", ErrMalformed)
	}
	tag := e.Event
	if tag == "" {
		tag = e.Data.Tag()
	}
	if tag != e.Data.Tag() {
		return nil, fmt.Errorf("%w: tag %s does not match %T", ErrMalformed, tag, e.Data)
	}

	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}

	w := wireEnvelope{
		Event:       tag,
		Data:        data,
		EventScope:  e.EventScope,
		UpdateScope: e.UpdateScope,
		Origin:      e.Origin,
		MessageID:   e.MessageID,
	}
	if !e.StartDate.IsZero() {
		w.StartDate = e.StartDate.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(w)
}

func (e *Envelope) UnmarshalJSON(b []byte) error {
	var w wireEnvelope
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	tag := w.Event
	if tag == "" {
		switch w.EventID {
		case legacyUpdateUser:
			tag = UserUpdated
		case legacyUpdateEnterprise:
			tag = EnterpriseUpdated
		case "":
			return fmt.Errorf("%w: missing event tag", ErrMalformed)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownEvent, w.EventID)
		}
	}

	p, err := newPayload(tag)
	if err != nil {
		return err
	}
	if len(w.Data) == 0 || string(w.Data) == "null" {
		return fmt.Errorf("%w: %s without data", ErrMalformed, tag)
	}
	if err := json.Unmarshal(w.Data, p); err != nil {
		return fmt.Errorf("%w: %s data: %v", ErrMalformed, tag, err)
	}
	if err := p.validate(); err != nil {
		return fmt.Errorf("%w: %s data: %v", ErrMalformed, tag, err)
	}

	start, err := parseStartDate(w.StartDate)
	if err != nil {
		return fmt.Errorf("%w: start_date: %v", ErrMalformed, err)
	}

	*e = Envelope{
		Event:       tag,
		Data:        deref(p),
		EventScope:  w.EventScope,
		UpdateScope: w.UpdateScope,
		Origin:      w.Origin,
		StartDate:   start,
		MessageID:   w.MessageID,
	}
	return nil
}

// Decode parses a message body.
func Decode(body []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(body, &e); err != nil {
		if errors.Is(err, ErrUnknownEvent) || errors.Is(err, ErrMalformed) {
			return Envelope{}, err
		}
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return e, nil
}

// Encode renders e as a message body.
func Encode(e Envelope) ([]byte, error) {
	return json.Marshal(e)
}

// Payloads are decoded through pointers; hand them out as values so that
// type switches only ever see one form.
func deref(p Payload) Payload {
	switch v := p.(type) {
	case *UserCreatedData:
		return *v
	case *UserUpdatedData:
		return *v
	case *UserDeletedData:
		return *v
	case *EnterpriseCreatedData:
		return *v
	case *EnterpriseUpdatedData:
		return *v
	case *EnterpriseDeletedData:
		return *v
	}
	return p
}

// Producers written against datetime.isoformat() may omit the zone.
var startDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func parseStartDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	var err error
	for _, layout := range startDateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

// RoutingKeys returns "<prefix>.<route>" for every non-empty route.
func RoutingKeys(prefix string, routes []string) []string {
	keys := make([]string, 0, len(routes))
	for _, r := range routes {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if prefix == "" {
			keys = append(keys, r)
			continue
		}
		keys = append(keys, prefix+"."+r)
	}
	return keys
}
