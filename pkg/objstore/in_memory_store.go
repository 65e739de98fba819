package objstore

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// InMemoryStore keeps uploaded objects in a map. Tests use FailPuts and
// EnsureBucketErr to script storage outages.
type InMemoryStore struct {
	// FailPuts holds object keys whose PutFile should fail.
	FailPuts map[string]bool

	EnsureBucketErr error

	mu      sync.Mutex
	buckets map[string]map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		buckets: make(map[string]map[string][]byte),
	}
}

func (s *InMemoryStore) EnsureBucket(_ context.Context, bucket string) error {
	if s.EnsureBucketErr != nil {
		return s.EnsureBucketErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[bucket]; !ok {
		s.buckets[bucket] = make(map[string][]byte)
	}

	return nil
}

func (s *InMemoryStore) PutFile(_ context.Context, bucket, key, localPath string) error {
	if s.FailPuts[key] {
		return fmt.Errorf("upload of %s failed", key)
	}

	contents, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	objects, ok := s.buckets[bucket]
	if !ok {
		return fmt.Errorf("no such bucket: %s", bucket)
	}
	objects[key] = contents

	return nil
}

// HasObject reports whether key was uploaded into bucket.
func (s *InMemoryStore) HasObject(bucket, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	objects, ok := s.buckets[bucket]
	if !ok {
		return false
	}

	_, ok = objects[key]
	return ok
}
