package session

import (
	"encoding/json"
	"strings"
)

// envelope is the inbound JSON wire format.
type envelope struct {
	Message    string `json:"message"`
	Agent      string `json:"agent,omitempty"`
	Ready      *bool  `json:"ready,omitempty"`
	ProductIDs []int  `json:"product_ids,omitempty"`
}

// readyMarker is the legacy readiness signal: servers that predate the
// structured ready field announce readiness inside free display text.
// Case-sensitive on purpose, matching the production protocol.
const readyMarker = "Welcome"

// inbound is one classified frame.
type inbound struct {
	Text       string
	Agent      string
	ProductIDs []int
	Ready      bool
	Opaque     bool // decode fallback: Text is the raw payload
}

// interpret classifies a raw frame. It never fails: malformed or
// unrecognized payloads degrade to an opaque text envelope so no frame is
// ever dropped.
func interpret(raw []byte) inbound {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Message == "" {
		return inbound{Text: string(raw), Opaque: true}
	}

	in := inbound{
		Text:       env.Message,
		Agent:      env.Agent,
		ProductIDs: env.ProductIDs,
	}

	// Structured field is authoritative when present; the substring match
	// remains as a compatibility fallback.
	if env.Ready != nil {
		in.Ready = *env.Ready
	} else if strings.Contains(env.Message, readyMarker) {
		in.Ready = true
	}
	return in
}
