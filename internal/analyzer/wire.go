package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Wire selects the encoding spoken with an analyzer subprocess.
type Wire string

const (
	WireJSON    Wire = "json"
	WireMsgpack Wire = "msgpack"
)

// ParseWire accepts "json" or "msgpack"; empty means json.
func ParseWire(s string) (Wire, error) {
	switch Wire(strings.ToLower(strings.TrimSpace(s))) {
	case "", WireJSON:
		return WireJSON, nil
	case WireMsgpack:
		return WireMsgpack, nil
	}
	return "", fmt.Errorf("unknown analyzer wire %q (want json or msgpack)", s)
}

func (w Wire) marshal(v any) ([]byte, error) {
	if w == WireMsgpack {
		return msgpack.Marshal(v)
	}
	return json.Marshal(v)
}

func (w Wire) unmarshal(data []byte, v any) error {
	if w == WireMsgpack {
		return msgpack.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// analyzeResponse is what "analyze" writes to stdout.
type analyzeResponse struct {
	Diagnostics []Diagnostic `json:"diagnostics" msgpack:"diagnostics"`
	Error       string       `json:"error,omitempty" msgpack:"error,omitempty"`
}

// Encode writes v in wire format. Exposed for analyzer bridges written in Go.
func (w Wire) Encode(v any) ([]byte, error) { return w.marshal(v) }

// Decode reads v from wire format.
func (w Wire) Decode(data []byte, v any) error { return w.unmarshal(data, v) }
