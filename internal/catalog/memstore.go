package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/facussc24/2026-sub001/internal/model"
)

// MemStore keeps JSON documents in memory, with an inverted index on the
// component_ids field of products so reverse queries are point lookups. It
// backs tests, the CLI "memory" driver and local development.
type MemStore struct {
	mu   sync.RWMutex
	docs map[model.Collection]map[string]map[string]json.RawMessage
	// index[collection][value] = set of document ids containing value
	index map[model.Collection]map[string]map[string]struct{}
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		docs:  make(map[model.Collection]map[string]map[string]json.RawMessage),
		index: make(map[model.Collection]map[string]map[string]struct{}),
	}
}

func (m *MemStore) Get(_ context.Context, coll model.Collection, id string, dst any) error {
	m.mu.RLock()
	doc, ok := m.docs[coll][id]
	var raw []byte
	var err error
	if ok {
		raw, err = json.Marshal(doc)
	}
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%s/%s: %w", coll, id, model.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s/%s: %w", coll, id, err)
	}
	stampID(dst, id)
	return nil
}

func (m *MemStore) QueryReverseIndex(_ context.Context, q ReverseQuery) ([]string, error) {
	if q.Field != FieldComponentIDs {
		return nil, fmt.Errorf("campo sin indice inverso: %q", q.Field)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	holders := m.index[q.Collection][q.Value]
	ids := make([]string, 0, len(holders))
	for id := range holders {
		if id != q.ExcludeID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if q.Limit > 0 && len(ids) > q.Limit {
		ids = ids[:q.Limit]
	}
	return ids, nil
}

func (m *MemStore) Delete(_ context.Context, coll model.Collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[coll][id]; !ok {
		return nil
	}
	m.unindex(coll, id)
	delete(m.docs[coll], id)
	return nil
}

func (m *MemStore) CreateIfAbsent(_ context.Context, coll model.Collection, id string, rec any) error {
	doc, err := toDoc(rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.docs[coll][id]; exists {
		return fmt.Errorf("%s/%s: %w", coll, id, model.ErrDuplicateKey)
	}
	m.put(coll, id, doc)
	return nil
}

func (m *MemStore) Write(_ context.Context, coll model.Collection, id string, rec any, merge bool) error {
	doc, err := toDoc(rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.docs[coll][id]; ok && merge {
		merged := make(map[string]json.RawMessage, len(existing)+len(doc))
		for k, v := range existing {
			merged[k] = v
		}
		for k, v := range doc {
			merged[k] = v
		}
		doc = merged
	}
	m.unindex(coll, id)
	m.put(coll, id, doc)
	return nil
}

// Len returns the number of documents in coll.
func (m *MemStore) Len(coll model.Collection) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs[coll])
}

// Ping always succeeds.
func (m *MemStore) Ping(context.Context) error { return nil }

// put stores doc and indexes it. Caller holds the write lock.
func (m *MemStore) put(coll model.Collection, id string, doc map[string]json.RawMessage) {
	if m.docs[coll] == nil {
		m.docs[coll] = make(map[string]map[string]json.RawMessage)
	}
	m.docs[coll][id] = doc

	var values []string
	if raw, ok := doc[FieldComponentIDs]; ok {
		_ = json.Unmarshal(raw, &values)
	}
	if len(values) == 0 {
		return
	}
	if m.index[coll] == nil {
		m.index[coll] = make(map[string]map[string]struct{})
	}
	for _, v := range values {
		if m.index[coll][v] == nil {
			m.index[coll][v] = make(map[string]struct{})
		}
		m.index[coll][v][id] = struct{}{}
	}
}

// unindex drops id from every posting list. Caller holds the write lock.
func (m *MemStore) unindex(coll model.Collection, id string) {
	doc, ok := m.docs[coll][id]
	if !ok {
		return
	}
	var values []string
	if raw, ok := doc[FieldComponentIDs]; ok {
		_ = json.Unmarshal(raw, &values)
	}
	for _, v := range values {
		delete(m.index[coll][v], id)
		if len(m.index[coll][v]) == 0 {
			delete(m.index[coll], v)
		}
	}
}

func toDoc(rec any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("encode: record must be a JSON object: %w", err)
	}
	return doc, nil
}

var _ Store = (*MemStore)(nil)
