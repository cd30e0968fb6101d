package nats

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/voyago/voyago/internal/port/eventbus"
)

// testConnect connects to NATS or skips the test if NATS_URL is not set.
func testConnect(t *testing.T) *Bus {
	t.Helper()

	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("requires NATS_URL")
	}

	b, err := Connect(context.Background(), url)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() {
		if err := b.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return b
}

func TestBus_Publish(t *testing.T) {
	b := testConnect(t)

	payload := eventbus.PlanStatusPayload{
		RequestID: "req-test-1",
		Agent:     "WeatherAgent",
		Line:      "WeatherAgent: 21.0C, clear sky",
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := b.Publish(context.Background(), eventbus.SubjectPlanStatus, data); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestBus_KeyValue(t *testing.T) {
	b := testConnect(t)

	bucket := "test-kv-" + t.Name()
	ctx := context.Background()

	kv, err := b.KeyValue(ctx, bucket, 30*time.Second)
	if err != nil {
		t.Fatalf("KeyValue: %v", err)
	}

	if _, err := kv.Put(ctx, "greeting", []byte("hello")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, err := kv.Get(ctx, "greeting")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(entry.Value()) != "hello" {
		t.Errorf("value = %q, want %q", string(entry.Value()), "hello")
	}

	if err := kv.Delete(ctx, "greeting"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := kv.Get(ctx, "greeting"); err == nil {
		t.Error("expected error after delete, got nil")
	}
}

func TestBus_IsConnected(t *testing.T) {
	b := testConnect(t)

	if !b.IsConnected() {
		t.Error("IsConnected() = false after Connect, want true")
	}
}
