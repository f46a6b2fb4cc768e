package live

import (
	"encoding/json"
	"testing"
	"time"

	"villapik/models"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
	}

	hub.register <- client

	event := models.Index{EntityType: "residence", Method: "PUT", EntityId: "r1"}
	hub.Broadcast(event)

	select {
	case got := <-client.Send:
		var decoded models.Index
		if err := json.Unmarshal(got, &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if decoded.EntityId != "r1" || decoded.Method != "PUT" {
			t.Fatalf("unexpected event: %+v", decoded)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// no buffer, nobody reading
	slow := &Client{Send: make(chan []byte)}
	hub.register <- slow

	hub.Broadcast(models.Index{EntityType: "settings", Method: "PUT"})

	select {
	case _, ok := <-slow.Send:
		if ok {
			t.Fatal("expected channel to be closed")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for close")
	}
}
