package feed

import (
	"encoding/json"
	"testing"
)

func TestOrderSubject(t *testing.T) {
	if got := orderSubject(42); got != "orders.42" {
		t.Fatalf("unexpected subject: %s", got)
	}
}

func TestOrderEvent_OmitsZeroFields(t *testing.T) {
	data, err := json.Marshal(orderEvent{EngineOrderID: 1, Kind: "accepted"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, field := range []string{"volume", "price", "canceled_volume"} {
		if _, present := raw[field]; present {
			t.Fatalf("expected %s to be omitted for an acceptance event, got %v", field, raw)
		}
	}
}
