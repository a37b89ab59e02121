package docstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore implementación en memoria de Store. Las transacciones se serializan
// entre sí y escriben en un área temporal que se aplica de golpe en el commit.
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	docs map[string]*Document
	now  func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore construye un store vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Document), now: time.Now}
}

func cloneDoc(d *Document) *Document {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Data = append([]byte(nil), d.Data...)
	return &cp
}

// Get obtiene un documento.
func (s *MemoryStore) Get(_ context.Context, key string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDoc(s.docs[key]), nil
}

// GetForUpdate fuera de transacción equivale a Get.
func (s *MemoryStore) GetForUpdate(ctx context.Context, key string) (*Document, error) {
	return s.Get(ctx, key)
}

// Put escribe sin condición.
func (s *MemoryStore) Put(_ context.Context, key string, data []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(key, data), nil
}

// PutIf escribe si la versión coincide.
func (s *MemoryStore) PutIf(_ context.Context, key string, data []byte, version int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentVersion(key) != version {
		return 0, ErrVersionConflict
	}
	return s.write(key, data), nil
}

// Delete elimina la clave (no falla si no existe).
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}

// Scan recorre por prefijo.
func (s *MemoryStore) Scan(_ context.Context, prefix string) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Document, 0)
	for k, d := range s.docs {
		if strings.HasPrefix(k, prefix) {
			out = append(out, cloneDoc(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// RunTx ejecuta fn con un memTx; si fn falla nada se aplica.
func (s *MemoryStore) RunTx(ctx context.Context, fn func(tx Ops) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &memTx{store: s, staged: make(map[string]*stagedWrite)}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

// currentVersion requiere s.mu tomado.
func (s *MemoryStore) currentVersion(key string) int64 {
	if d, ok := s.docs[key]; ok {
		return d.Version
	}
	return 0
}

// write requiere s.mu tomado en escritura.
func (s *MemoryStore) write(key string, data []byte) int64 {
	v := s.currentVersion(key) + 1
	s.docs[key] = &Document{
		Key:       key,
		Data:      append([]byte(nil), data...),
		Version:   v,
		UpdatedAt: s.now(),
	}
	return v
}

// stagedWrite escritura pendiente de commit. expected < 0 significa sin condición.
type stagedWrite struct {
	data     []byte
	deleted  bool
	expected int64
}

type memTx struct {
	store  *MemoryStore
	staged map[string]*stagedWrite
	order  []string
}

func (t *memTx) stage(key string, w *stagedWrite) {
	if prev, ok := t.staged[key]; ok {
		// la primera condición registrada es la que se verifica contra el store
		if prev.expected >= 0 {
			w.expected = prev.expected
		}
	} else {
		t.order = append(t.order, key)
	}
	t.staged[key] = w
}

// visible devuelve el documento tal como lo ve la transacción.
func (t *memTx) visible(key string) *Document {
	base, _ := t.store.Get(context.Background(), key)
	w, ok := t.staged[key]
	if !ok {
		return base
	}
	if w.deleted {
		return nil
	}
	v := int64(1)
	if base != nil {
		v = base.Version + 1
	}
	return &Document{Key: key, Data: append([]byte(nil), w.data...), Version: v, UpdatedAt: t.store.now()}
}

func (t *memTx) Get(_ context.Context, key string) (*Document, error) {
	return t.visible(key), nil
}

func (t *memTx) GetForUpdate(ctx context.Context, key string) (*Document, error) {
	return t.Get(ctx, key)
}

func (t *memTx) Put(_ context.Context, key string, data []byte) (int64, error) {
	t.stage(key, &stagedWrite{data: append([]byte(nil), data...), expected: -1})
	return t.visible(key).Version, nil
}

func (t *memTx) PutIf(_ context.Context, key string, data []byte, version int64) (int64, error) {
	cur := t.visible(key)
	var curVersion int64
	if cur != nil {
		curVersion = cur.Version
	}
	if curVersion != version {
		return 0, ErrVersionConflict
	}
	expected := version
	if _, staged := t.staged[key]; staged {
		expected = -1 // ya se condicionó la primera escritura
	}
	t.stage(key, &stagedWrite{data: append([]byte(nil), data...), expected: expected})
	return t.visible(key).Version, nil
}

func (t *memTx) Delete(_ context.Context, key string) error {
	t.stage(key, &stagedWrite{deleted: true, expected: -1})
	return nil
}

func (t *memTx) Scan(ctx context.Context, prefix string) ([]*Document, error) {
	base, _ := t.store.Scan(ctx, prefix)
	byKey := make(map[string]*Document, len(base))
	for _, d := range base {
		byKey[d.Key] = d
	}
	for k := range t.staged {
		if strings.HasPrefix(k, prefix) {
			if d := t.visible(k); d != nil {
				byKey[k] = d
			} else {
				delete(byKey, k)
			}
		}
	}
	out := make([]*Document, 0, len(byKey))
	for _, d := range byKey {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// commit verifica todas las condiciones y aplica las escrituras de forma atómica.
func (t *memTx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range t.order {
		w := t.staged[k]
		if w.expected >= 0 && s.currentVersion(k) != w.expected {
			return ErrVersionConflict
		}
	}
	for _, k := range t.order {
		w := t.staged[k]
		if w.deleted {
			delete(s.docs, k)
			continue
		}
		s.write(k, w.data)
	}
	return nil
}
