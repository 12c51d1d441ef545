package session

import (
	"testing"
)

func TestInterpret_StructuredReadyField(t *testing.T) {
	in := interpret([]byte(`{"message":"You're in","ready":true}`))
	if !in.Ready {
		t.Error("Structured ready field not honored")
	}
	if in.Opaque {
		t.Error("Structured frame classified as opaque")
	}
}

func TestInterpret_StructuredReadyFalseOverridesMarker(t *testing.T) {
	// Servers that emit the field are authoritative even when display copy
	// happens to contain the legacy marker.
	in := interpret([]byte(`{"message":"Welcome emails are sent on signup","ready":false}`))
	if in.Ready {
		t.Error("ready:false must override the substring fallback")
	}
}

func TestInterpret_LegacyWelcomeFallback(t *testing.T) {
	in := interpret([]byte(`{"message":"Welcome back, shopper!"}`))
	if !in.Ready {
		t.Error("Legacy Welcome marker not detected")
	}

	// Case-sensitive on purpose.
	in = interpret([]byte(`{"message":"welcome back"}`))
	if in.Ready {
		t.Error("Marker match must be case-sensitive")
	}
}

func TestInterpret_AgentAndProducts(t *testing.T) {
	in := interpret([]byte(`{"message":"Options","agent":"Recommendation Agent","product_ids":[5,9]}`))
	if in.Agent != "Recommendation Agent" {
		t.Errorf("Expected agent label, got %q", in.Agent)
	}
	if len(in.ProductIDs) != 2 || in.ProductIDs[0] != 5 || in.ProductIDs[1] != 9 {
		t.Errorf("Product ids not preserved in order: %v", in.ProductIDs)
	}
}

func TestInterpret_MessageOnly(t *testing.T) {
	in := interpret([]byte(`{"message":"Just text"}`))
	if in.Agent != "" || len(in.ProductIDs) != 0 || in.Ready || in.Opaque {
		t.Errorf("Plain message misclassified: %+v", in)
	}
}

func TestInterpret_MalformedAndWrongShape(t *testing.T) {
	cases := []string{
		`not json at all`,
		`{"foo":"bar"}`,
		`123`,
		``,
	}
	for _, raw := range cases {
		in := interpret([]byte(raw))
		if !in.Opaque {
			t.Errorf("Expected opaque fallback for %q, got %+v", raw, in)
		}
		if in.Text != raw {
			t.Errorf("Opaque fallback must carry the raw payload, got %q", in.Text)
		}
	}
}
