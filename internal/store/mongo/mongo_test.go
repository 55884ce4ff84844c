package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/adanyl0v/go-todo-board/internal/store"
	"github.com/adanyl0v/go-todo-board/internal/store/storetest"
)

func TestToBSON(t *testing.T) {
	got := toBSON(store.Filter{
		"project_id": store.Ne(nil),
		"status":     "done",
	})

	ne, ok := got["project_id"].(bson.M)
	if !ok {
		t.Fatalf("project_id = %#v, want a $ne document", got["project_id"])
	}
	if v, ok := ne["$ne"]; !ok || v != nil {
		t.Errorf("$ne = %v, want nil", v)
	}
	if got["status"] != "done" {
		t.Errorf("status = %v, want done", got["status"])
	}

	if empty := toBSON(nil); empty == nil {
		t.Error("nil filter must produce an empty document")
	}
}

// TestStore needs a running server, e.g.
// TEST_MONGO_URL=mongodb://localhost:27017 go test ./internal/store/mongo
func TestStore(t *testing.T) {
	url := os.Getenv("TEST_MONGO_URL")
	if url == "" {
		t.Skip("TEST_MONGO_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Connect(ctx, Options{URL: url, Database: "unused", ConnectTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() { _ = s.Close(context.Background()) }()

	err = s.Ping(ctx)
	if err != nil {
		t.Fatalf("ping: %v", err)
	}

	n := 0
	storetest.Run(t, func(t *testing.T) store.Store {
		n++
		db := New(s.client, fmt.Sprintf("todo_test_%d_%d", time.Now().UnixNano(), n), false)
		t.Cleanup(func() { _ = db.Drop(context.Background()) })

		if err := db.EnsureIndexes(context.Background()); err != nil {
			t.Fatalf("ensure indexes: %v", err)
		}
		return db
	})
}
