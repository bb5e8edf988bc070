package vip

import "sync"

// entityLocks - набор мьютексов с ключом (entityID, tier).
// Блокировка держится на все окно проверка-создание-связка при покупке,
// чтобы два конкурентных запроса не прошли проверку дубликата
// одновременно. Записи со счетчиком ссылок удаляются из карты, как
// только последний держатель отпускает ключ.
type entityLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newEntityLocks() *entityLocks {
	return &entityLocks{entries: make(map[string]*lockEntry)}
}

// Lock захватывает мьютекс ключа и возвращает функцию освобождения
func (l *entityLocks) Lock(key string) func() {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &lockEntry{}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}
