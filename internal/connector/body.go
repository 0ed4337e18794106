// Package connector defines the Connector Integration Protocol: the set of
// operations a connector adapter implements per flow (§4.4), and
// the wire-body abstraction those operations build.
package connector

import (
	"encoding/json"
	"encoding/xml"
	"net/url"
)

// Body is anything a connector operation's Body method can return. The
// HTTP Exchange Executor calls ContentType and Encode on it to set the
// Content-Type header and the request bytes.
type Body interface {
	ContentType() string
	Encode() ([]byte, error)
}

// JSONBody encodes v as application/json.
type JSONBody struct {
	Value any
}

func (b JSONBody) ContentType() string { return "application/json" }
func (b JSONBody) Encode() ([]byte, error) { return json.Marshal(b.Value) }

// FormURLEncodedBody encodes a flat field set as
// application/x-www-form-urlencoded, the shape Elavon's xmldata= wrapper
// and similar legacy connectors expect.
type FormURLEncodedBody struct {
	Fields map[string]string
}

func (b FormURLEncodedBody) ContentType() string { return "application/x-www-form-urlencoded" }

func (b FormURLEncodedBody) Encode() ([]byte, error) {
	v := url.Values{}
	for k, val := range b.Fields {
		v.Set(k, val)
	}
	return []byte(v.Encode()), nil
}

// XMLBody encodes v as application/xml.
type XMLBody struct {
	Value any
}

func (b XMLBody) ContentType() string { return "application/xml" }
func (b XMLBody) Encode() ([]byte, error) { return xml.Marshal(b.Value) }

// RawBytesBody passes pre-encoded bytes through unchanged, for connectors
// that build their own wire format outside encoding/json or encoding/xml.
type RawBytesBody struct {
	Bytes       []byte
	ContentTypeValue string
}

func (b RawBytesBody) ContentType() string   { return b.ContentTypeValue }
func (b RawBytesBody) Encode() ([]byte, error) { return b.Bytes, nil }

// MaskableValue is a header or field value that may need masking before it
// reaches a log or trace span (property 3).
type MaskableValue struct {
	Value string
	Sensitive bool
}

// Header is a single outbound HTTP header a connector operation contributes.
type Header struct {
	Name string
	Value MaskableValue
}
