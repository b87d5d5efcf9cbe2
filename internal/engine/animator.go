package engine

import (
	"github.com/annel0/arena-core/internal/logging"
)

type clipKey struct {
	entity uint64
	clip   string
}

type clipState struct {
	remaining float64
	looping   bool
}

// TimedAnimator - эталонный аниматор без рендера: клипы имеют фиксированную длительность
// и "играют", пока не истечёт время. Неизвестный клип логируется и игнорируется.
// Не потокобезопасен: продвигается тем же циклом, что и симуляция.
type TimedAnimator struct {
	durations map[string]float64
	playing   map[clipKey]*clipState
	log       *logging.Logger
}

// DefaultClipDurations - длительности клипов по умолчанию, секунды
func DefaultClipDurations() map[string]float64 {
	return map[string]float64{
		ClipStand:  1.0,
		ClipWalk:   0.8,
		ClipAttack: 0.5,
		ClipDie:    1.2,
		ClipSpawn:  1.0,
	}
}

// NewTimedAnimator создаёт аниматор с указанными длительностями клипов
func NewTimedAnimator(durations map[string]float64) *TimedAnimator {
	if durations == nil {
		durations = DefaultClipDurations()
	}
	return &TimedAnimator{
		durations: durations,
		playing:   make(map[clipKey]*clipState),
		log:       logging.GetComponentLogger("animation"),
	}
}

func (a *TimedAnimator) start(entityID uint64, clip string, looping bool) {
	d, ok := a.durations[clip]
	if !ok {
		a.log.Warn("unknown clip %q for entity %d, ignored", clip, entityID)
		return
	}
	a.playing[clipKey{entityID, clip}] = &clipState{remaining: d, looping: looping}
}

// Play проигрывает клип один раз
func (a *TimedAnimator) Play(entityID uint64, clip string) { a.start(entityID, clip, false) }

// Loop зацикливает клип
func (a *TimedAnimator) Loop(entityID uint64, clip string) { a.start(entityID, clip, true) }

// Stop останавливает клип
func (a *TimedAnimator) Stop(entityID uint64, clip string) {
	delete(a.playing, clipKey{entityID, clip})
}

// IsPlaying сообщает, играет ли клип
func (a *TimedAnimator) IsPlaying(entityID uint64, clip string) bool {
	_, ok := a.playing[clipKey{entityID, clip}]
	return ok
}

// Release удаляет все клипы сущности
func (a *TimedAnimator) Release(entityID uint64) {
	for k := range a.playing {
		if k.entity == entityID {
			delete(a.playing, k)
		}
	}
}

// Advance продвигает время клипов; одиночные клипы по истечении перестают играть
func (a *TimedAnimator) Advance(dt float64) {
	for k, st := range a.playing {
		st.remaining -= dt
		if st.remaining > 0 {
			continue
		}
		if st.looping {
			st.remaining += a.durations[k.clip]
			continue
		}
		delete(a.playing, k)
	}
}
