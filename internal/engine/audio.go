package engine

import "github.com/annel0/arena-core/internal/logging"

// NopAudio глушит все звуки
type NopAudio struct{}

func (NopAudio) Play(string) {}
func (NopAudio) Loop(string) {}
func (NopAudio) Stop(string) {}

// LogAudio - эталонный аудио-коллаборатор: пишет команды в лог на уровне DEBUG.
// Неизвестные сигналы логируются как предупреждение и игнорируются.
type LogAudio struct {
	known map[string]bool
	loops map[string]bool
	log   *logging.Logger
}

// NewLogAudio создаёт аудио с набором известных сигналов
func NewLogAudio(cues ...string) *LogAudio {
	if len(cues) == 0 {
		cues = []string{CueLaser, CueEnemyAttack, CuePlayerHurt, CueEnemyDie,
			CueEnemySpawn, CueTrapSlide, CueTrapImpact, CueGameOver}
	}
	known := make(map[string]bool, len(cues))
	for _, c := range cues {
		known[c] = true
	}
	return &LogAudio{known: known, loops: make(map[string]bool), log: logging.GetComponentLogger("audio")}
}

func (a *LogAudio) check(cue string) bool {
	if !a.known[cue] {
		a.log.Warn("unknown cue %q ignored", cue)
		return false
	}
	return true
}

// Play проигрывает сигнал один раз
func (a *LogAudio) Play(cue string) {
	if a.check(cue) {
		a.log.Debug("play %s", cue)
	}
}

// Loop зацикливает сигнал; повторный Loop уже играющего сигнала - no-op
func (a *LogAudio) Loop(cue string) {
	if !a.check(cue) || a.loops[cue] {
		return
	}
	a.loops[cue] = true
	a.log.Debug("loop %s", cue)
}

// Stop останавливает сигнал
func (a *LogAudio) Stop(cue string) {
	if !a.loops[cue] {
		return
	}
	delete(a.loops, cue)
	a.log.Debug("stop %s", cue)
}

// IsLooping сообщает, зациклен ли сигнал
func (a *LogAudio) IsLooping(cue string) bool { return a.loops[cue] }
