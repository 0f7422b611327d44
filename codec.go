package ringwalk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf8"
)

// Codec converts a message to and from the payload of exactly one datagram
type Codec interface {
	Name() string
	Encode(m Message) ([]byte, error)
	Decode(data []byte) (Message, error)
}

const (
	pingVariant = "Ping"
	doneVariant = "Done"
)

// wirePing is the body of the externally tagged Ping variant shared by the
// json and cbor codecs
type wirePing struct {
	Source uint16 `json:"source" cbor:"source"`
	Hops   uint32 `json:"hops" cbor:"hops"`
}

var codecs = map[string]Codec{}

func registerCodec(c Codec) {
	codecs[c.Name()] = c
}

func init() {
	registerCodec(JSON())
	registerCodec(CBOR())
	registerCodec(FlatBuffers())
}

// LookupCodec returns the codec registered under name
func LookupCodec(name string) (Codec, error) {
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// CodecNames lists the registered codec names in sorted order
func CodecNames() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type jsonCodec struct{}

// JSON returns the default codec: {"Ping":{"source":1,"hops":2}} or "Done"
func JSON() Codec { return jsonCodec{} }

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(m Message) ([]byte, error) {
	v, err := taggedValue(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func (jsonCodec) Decode(data []byte) (Message, error) {
	if !utf8.Valid(data) {
		return Message{}, malformed("payload is not valid utf-8")
	}
	if err := checkDuplicateKeys(data); err != nil {
		return Message{}, malformed("%s", err.Error())
	}
	return decodeTagged[json.RawMessage](data, json.Unmarshal)
}

// checkDuplicateKeys fails if any object in the document repeats a key.
// encoding/json keeps the last value silently.
func checkDuplicateKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return walkJSON(dec)
}

func walkJSON(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		seen := make(map[string]struct{})
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return err
			}

			key, _ := kt.(string)
			if _, dup := seen[key]; dup {
				return fmt.Errorf("duplicate key %q", key)
			}
			seen[key] = struct{}{}

			if err := walkJSON(dec); err != nil {
				return err
			}
		}
	case '[':
		for dec.More() {
			if err := walkJSON(dec); err != nil {
				return err
			}
		}
	}

	// closing delimiter
	_, err = dec.Token()
	return err
}

func taggedValue(m Message) (any, error) {
	switch m.kind {
	case KindPing:
		return map[string]wirePing{
			pingVariant: {Source: m.ping.Source, Hops: m.ping.Hops},
		}, nil
	case KindDone:
		return doneVariant, nil
	default:
		return nil, malformed("cannot encode %s message", m.kind)
	}
}

// decodeTagged parses the externally tagged representation with any
// self-describing unmarshaller. Keys are matched exactly and every field must
// be present; a null anywhere is rejected.
func decodeTagged[R ~[]byte](data []byte, unmarshal func([]byte, any) error) (Message, error) {
	var variant string
	if err := unmarshal(data, &variant); err == nil {
		if variant != doneVariant {
			return Message{}, malformed("unknown variant %q", variant)
		}
		return DoneMessage(), nil
	}

	var outer map[string]R
	if err := unmarshal(data, &outer); err != nil {
		return Message{}, malformed("%s", err.Error())
	}

	if len(outer) != 1 {
		return Message{}, malformed("expected exactly one variant, found %d", len(outer))
	}

	body, ok := outer[pingVariant]
	if !ok {
		for k := range outer {
			return Message{}, malformed("unknown variant %q", k)
		}
	}

	var fields map[string]R
	if err := unmarshal([]byte(body), &fields); err != nil {
		return Message{}, malformed("ping: %s", err.Error())
	}

	for k := range fields {
		if k != "source" && k != "hops" {
			return Message{}, malformed("ping: unknown field %q", k)
		}
	}

	var source *uint16
	var hops *uint32

	if raw, ok := fields["source"]; ok {
		if err := unmarshal([]byte(raw), &source); err != nil {
			return Message{}, malformed("ping.source: %s", err.Error())
		}
	}

	if raw, ok := fields["hops"]; ok {
		if err := unmarshal([]byte(raw), &hops); err != nil {
			return Message{}, malformed("ping.hops: %s", err.Error())
		}
	}

	if source == nil {
		return Message{}, malformed("ping.source is missing")
	}

	if hops == nil {
		return Message{}, malformed("ping.hops is missing")
	}

	return PingMessage(Ping{Source: *source, Hops: *hops}), nil
}
