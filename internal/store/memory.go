package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by unit tests and dry runs.
// Values are kept as a decoded JSON tree; every Read marshals back out, so
// callers always get an independent copy. Push ids are zero-padded counters
// (suffixed with a uuid fragment) and therefore sort by creation time, like
// Firebase push ids.
type MemoryStore struct {
	mu   sync.Mutex
	root map[string]interface{}
	seq  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{root: make(map[string]interface{})}
}

func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

// node walks to the map at path, optionally creating intermediate maps.
func (s *MemoryStore) node(segments []string, create bool) (map[string]interface{}, bool) {
	cur := s.root
	for _, seg := range segments {
		next, ok := cur[seg]
		if !ok {
			if !create {
				return nil, false
			}
			m := make(map[string]interface{})
			cur[seg] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]interface{})
		if !ok {
			if !create {
				return nil, false
			}
			m = make(map[string]interface{})
			cur[seg] = m
			cur = m
			continue
		}
		cur = m
	}
	return cur, true
}

func (s *MemoryStore) Read(_ context.Context, path string, dest interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	segments := splitPath(path)
	if len(segments) == 0 {
		return false, nil
	}
	parent, ok := s.node(segments[:len(segments)-1], false)
	if !ok {
		return false, nil
	}
	value, ok := parent[segments[len(segments)-1]]
	if !ok || value == nil {
		return false, nil
	}

	// JSON round-trip hands the caller an independent copy.
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

func (s *MemoryStore) Push(_ context.Context, path string, value interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", err
	}

	node, _ := s.node(splitPath(path), true)
	s.seq++
	id := fmt.Sprintf("%012d-%s", s.seq, uuid.NewString()[:8])
	node[id] = decoded
	return id, nil
}

func (s *MemoryStore) Update(_ context.Context, path string, partial map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, _ := s.node(splitPath(path), true)
	for k, v := range partial {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var decoded interface{}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return err
		}
		node[k] = decoded
	}
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	segments := splitPath(path)
	if len(segments) == 0 {
		return nil
	}
	parent, ok := s.node(segments[:len(segments)-1], false)
	if !ok {
		return nil
	}
	delete(parent, segments[len(segments)-1])
	return nil
}

var _ Store = (*MemoryStore)(nil)
