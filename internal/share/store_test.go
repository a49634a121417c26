package share

import (
	"testing"

	"github.com/jonesrussell/analyzer/internal/config"
)

func TestNewShareID(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := newShareID()
		if err != nil {
			t.Fatalf("newShareID() error = %v", err)
		}
		// 6 random bytes hex-encoded.
		if len(id) != 12 {
			t.Fatalf("id %q has length %d, want 12", id, len(id))
		}
		for _, r := range id {
			if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
				t.Fatalf("id %q contains non-hex rune %q", id, r)
			}
		}
		if seen[id] {
			t.Fatalf("id %q generated twice in %d draws", id, i+1)
		}
		seen[id] = true
	}
}

func TestNewRedisClient_RequiresAddress(t *testing.T) {
	t.Parallel()

	client, err := NewRedisClient(&config.RedisConfig{})
	if err == nil {
		client.Close()
		t.Fatal("NewRedisClient() with empty address succeeded")
	}
}
