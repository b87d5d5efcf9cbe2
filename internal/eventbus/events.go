package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Source - имя источника игровых событий
const Source = "arena-core"

// Типы игровых событий
const (
	TypeEnemySpawned     = "EnemySpawned"
	TypeEnemyKilled      = "EnemyKilled"
	TypePlayerDamaged    = "PlayerDamaged"
	TypeGameOver         = "GameOver"
	TypeSessionRestarted = "SessionRestarted"
)

// payloadVersion - версия схемы полезной нагрузки
const payloadVersion = 1

// EnemySpawned - директор создал ближнего врага
type EnemySpawned struct {
	EntityID uint64  `json:"entity_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Frame    uint64  `json:"frame"`
	Live     int     `json:"live"`
	Max      int     `json:"max"`
}

// EnemyKilled - враг перешёл в стадию dying
type EnemyKilled struct {
	EntityID   uint64 `json:"entity_id"`
	Kind       string `json:"kind"`
	Cause      string `json:"cause"`
	Score      int    `json:"score"`
	TotalScore int    `json:"total_score"`
	Frame      uint64 `json:"frame"`
}

// PlayerDamaged - игрок потерял здоровье
type PlayerDamaged struct {
	Amount   float64 `json:"amount"`
	Health   float64 `json:"health"`
	Cause    string  `json:"cause"`
	SourceID uint64  `json:"source_id"`
	Frame    uint64  `json:"frame"`
}

// GameOver - игрок погиб, сессия завершена
type GameOver struct {
	FinalScore int     `json:"final_score"`
	Frame      uint64  `json:"frame"`
	Elapsed    float64 `json:"elapsed"`
}

// SessionRestarted - сессия пересоздана с нуля
type SessionRestarted struct {
	PreviousSessionID string `json:"previous_session_id"`
	Restarts          int    `json:"restarts"`
}

// priorities задаёт приоритет по типу: GameOver нельзя терять при переполнении
var priorities = map[string]int{
	TypeEnemySpawned:     1,
	TypeEnemyKilled:      3,
	TypePlayerDamaged:    3,
	TypeGameOver:         9,
	TypeSessionRestarted: 7,
}

// NewEnvelope упаковывает полезную нагрузку в JSON и заполняет служебные поля
func NewEnvelope(eventType, sessionID string, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("сериализация %s: %w", eventType, err)
	}
	return &Envelope{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		Source:        Source,
		EventType:     eventType,
		Version:       payloadVersion,
		CorrelationID: sessionID,
		Priority:      priorities[eventType],
		Payload:       data,
	}, nil
}

// Decode распаковывает полезную нагрузку события
func Decode(ev *Envelope, v any) error {
	if err := json.Unmarshal(ev.Payload, v); err != nil {
		return fmt.Errorf("разбор %s %s: %w", ev.EventType, ev.ID, err)
	}
	return nil
}
