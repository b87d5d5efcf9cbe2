// Package snapshot сериализует сущности и кадры арены (msgpack + zstd) и
// хранит журнал последних кадров сессии в памяти.
package snapshot

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/annel0/arena-core/internal/entity"
	"github.com/annel0/arena-core/internal/spawn"
)

// Arena - снимок состояния сессии на конец кадра
type Arena struct {
	Frame    uint64           `msgpack:"frame" json:"frame"`
	Elapsed  float64          `msgpack:"elapsed" json:"elapsed"`
	Status   string           `msgpack:"status" json:"status"`
	Director spawn.State      `msgpack:"director" json:"director"`
	Entities []*entity.Entity `msgpack:"entities" json:"entities"`
}

var (
	codecOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	codecErr  error
)

// initCodec создаёт общие кодеры zstd. EncodeAll/DecodeAll безопасны для
// одновременного использования.
func initCodec() error {
	codecOnce.Do(func() {
		encoder, codecErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if codecErr != nil {
			codecErr = fmt.Errorf("не удалось создать zstd компрессор: %w", codecErr)
			return
		}
		decoder, codecErr = zstd.NewReader(nil)
		if codecErr != nil {
			codecErr = fmt.Errorf("не удалось создать zstd декомпрессор: %w", codecErr)
		}
	})
	return codecErr
}

// EncodeEntity сериализует сущность в msgpack.
// Дескриптор коллайдера не сохраняется: он принадлежит внешней системе.
func EncodeEntity(e *entity.Entity) ([]byte, error) {
	data, err := msgpack.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации сущности %d: %w", e.ID, err)
	}
	return data, nil
}

// DecodeEntity восстанавливает сущность из msgpack
func DecodeEntity(data []byte) (*entity.Entity, error) {
	var e entity.Entity
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("ошибка десериализации сущности: %w", err)
	}
	return &e, nil
}

// EncodeArena сериализует снимок кадра и сжимает его zstd
func EncodeArena(a *Arena) ([]byte, error) {
	if err := initCodec(); err != nil {
		return nil, err
	}
	raw, err := msgpack.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации кадра %d: %w", a.Frame, err)
	}
	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// DecodeArena распаковывает и десериализует снимок кадра
func DecodeArena(data []byte) (*Arena, error) {
	if err := initCodec(); err != nil {
		return nil, err
	}
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки кадра: %w", err)
	}
	var a Arena
	if err := msgpack.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("ошибка десериализации кадра: %w", err)
	}
	return &a, nil
}
