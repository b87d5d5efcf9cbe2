package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v3"
)

var (
	// ErrNotFound - кадр отсутствует в журнале
	ErrNotFound = errors.New("кадр не найден в журнале")
	// ErrClosed - журнал закрыт
	ErrClosed = errors.New("журнал закрыт")
)

var framePrefix = []byte("frame:")

// Journal хранит сжатые снимки последних кадров сессии в BadgerDB в режиме
// in-memory. На диск ничего не пишется, содержимое живёт не дольше сессии.
type Journal struct {
	db       *badger.DB
	capacity int
	first    uint64 // Самый старый кадр в журнале
	last     uint64
	count    int
	mutex    sync.RWMutex
	ready    bool
}

// NewJournal открывает журнал на capacity последних кадров
func NewJournal(capacity int) (*Journal, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ёмкость журнала должна быть > 0, получено %d", capacity)
	}

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &Journal{db: db, capacity: capacity, ready: true}, nil
}

func frameKey(frame uint64) []byte {
	key := make([]byte, len(framePrefix)+8)
	copy(key, framePrefix)
	binary.BigEndian.PutUint64(key[len(framePrefix):], frame)
	return key
}

// Append сохраняет снимок кадра и вытесняет самый старый при переполнении.
// Номера кадров должны возрастать.
func (j *Journal) Append(a *Arena) error {
	data, err := EncodeArena(a)
	if err != nil {
		return err
	}

	j.mutex.Lock()
	defer j.mutex.Unlock()

	if !j.ready {
		return ErrClosed
	}
	if j.count > 0 && a.Frame <= j.last {
		return fmt.Errorf("кадр %d не новее последнего %d", a.Frame, j.last)
	}

	err = j.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(frameKey(a.Frame), data); err != nil {
			return err
		}
		if j.count >= j.capacity {
			return txn.Delete(frameKey(j.first))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения кадра %d в BadgerDB: %w", a.Frame, err)
	}

	if j.count == 0 {
		j.first = a.Frame
	}
	j.last = a.Frame
	if j.count >= j.capacity {
		if err := j.advanceFirst(); err != nil {
			return err
		}
	} else {
		j.count++
	}
	return nil
}

// advanceFirst находит новый самый старый кадр после вытеснения
func (j *Journal) advanceFirst() error {
	return j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = framePrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Rewind()
		if !it.Valid() {
			return ErrNotFound
		}
		j.first = binary.BigEndian.Uint64(it.Item().Key()[len(framePrefix):])
		return nil
	})
}

// Get возвращает снимок кадра
func (j *Journal) Get(frame uint64) (*Arena, error) {
	j.mutex.RLock()
	defer j.mutex.RUnlock()

	if !j.ready {
		return nil, ErrClosed
	}

	var data []byte
	err := j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(frameKey(frame))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения кадра %d из BadgerDB: %w", frame, err)
	}
	return DecodeArena(data)
}

// Latest возвращает последний сохранённый кадр
func (j *Journal) Latest() (*Arena, error) {
	j.mutex.RLock()
	empty, last := j.count == 0, j.last
	j.mutex.RUnlock()

	if empty {
		return nil, ErrNotFound
	}
	return j.Get(last)
}

// Bounds возвращает номера самого старого и последнего кадров и их число
func (j *Journal) Bounds() (first, last uint64, count int) {
	j.mutex.RLock()
	defer j.mutex.RUnlock()
	return j.first, j.last, j.count
}

// Reset очищает журнал (используется при рестарте сессии)
func (j *Journal) Reset() error {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	if !j.ready {
		return ErrClosed
	}
	err := j.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = framePrefix
		it := txn.NewIterator(opts)
		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка очистки журнала: %w", err)
	}
	j.first, j.last, j.count = 0, 0, 0
	return nil
}

// Close закрывает журнал
func (j *Journal) Close() error {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	if !j.ready {
		return nil
	}
	j.ready = false
	return j.db.Close()
}
