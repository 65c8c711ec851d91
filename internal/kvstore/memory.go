package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory реализует Store в памяти процесса. Используется в тестах как замена
// redis; значения хранятся уже сериализованными, чтобы семантика JSON-копий
// совпадала с боевой реализацией.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory создает пустое хранилище в памяти.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get читает и десериализует значение по ключу.
func (m *Memory) Get(_ context.Context, key string, result any) (bool, error) {
	const op = "kvstore.Memory.Get"
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сериализует значение в JSON и сохраняет.
func (m *Memory) Set(_ context.Context, key string, value any) error {
	const op = "kvstore.Memory.Set"
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

// Delete удаляет ключ.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// SetRaw кладет в хранилище сырое значение без сериализации.
// Нужен тестам, проверяющим поведение на испорченных данных.
func (m *Memory) SetRaw(key string, raw []byte) {
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
}
