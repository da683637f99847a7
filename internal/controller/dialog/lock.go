package dialog

import "sync"

type refLock struct {
	sync.Mutex
	refs int
}

// keyedMutex мьютекс на каждого собеседника; неиспользуемые блокировки удаляются
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refLock)}
}

// Lock захватывает блокировку key и возвращает функцию освобождения
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
