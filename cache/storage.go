package cache

// EntryStorage is the backing keyed storage for a Store. Implementations own
// capacity and eviction policy only; staleness, deduplication, rollback and
// generation tracking all live in the Store above, so an eviction is always
// safe. At worst it turns a hit into a refetch.
//
// The Store serializes every call through its own mutex, so implementations
// are not required to be safe for concurrent use on their own.
type EntryStorage interface {
	// Get returns the record stored under key.
	Get(key string) (any, bool)
	// Set stores value under key, replacing any previous record.
	Set(key string, value any)
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string)
	// Keys returns the keys of all stored records, in no particular order.
	Keys() []string
	// Len reports the number of stored records.
	Len() int
}

type mapStorage struct {
	m map[string]any
}

// NewMapStorage returns an unbounded in-memory EntryStorage with no eviction.
// Production assemblies use a bounded sharded engine instead; this one is for
// tests and short-lived tools where memory pressure is not a concern.
func NewMapStorage() EntryStorage {
	return &mapStorage{m: make(map[string]any)}
}

func (s *mapStorage) Get(key string) (any, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s *mapStorage) Set(key string, value any) { s.m[key] = value }

func (s *mapStorage) Delete(key string) { delete(s.m, key) }

func (s *mapStorage) Keys() []string {
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	return keys
}

func (s *mapStorage) Len() int { return len(s.m) }
