package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimedAnimator_OneShotExpires(t *testing.T) {
	a := NewTimedAnimator(map[string]float64{ClipAttack: 0.5, ClipWalk: 0.2})

	a.Play(1, ClipAttack)
	assert.True(t, a.IsPlaying(1, ClipAttack))
	assert.False(t, a.IsPlaying(2, ClipAttack), "Клип другой сущности не играет")

	a.Advance(0.3)
	assert.True(t, a.IsPlaying(1, ClipAttack))
	a.Advance(0.3)
	assert.False(t, a.IsPlaying(1, ClipAttack), "Одиночный клип должен закончиться")
}

func TestTimedAnimator_LoopAndRelease(t *testing.T) {
	a := NewTimedAnimator(map[string]float64{ClipWalk: 0.2})

	a.Loop(3, ClipWalk)
	for i := 0; i < 10; i++ {
		a.Advance(0.1)
	}
	assert.True(t, a.IsPlaying(3, ClipWalk), "Зацикленный клип играет бесконечно")

	a.Release(3)
	assert.False(t, a.IsPlaying(3, ClipWalk))
}

func TestTimedAnimator_UnknownClipIsNoop(t *testing.T) {
	a := NewTimedAnimator(map[string]float64{})
	a.Play(1, "dance")
	assert.False(t, a.IsPlaying(1, "dance"))
}

func TestLogAudio_LoopStop(t *testing.T) {
	a := NewLogAudio()
	a.Loop(CueLaser)
	a.Loop(CueLaser)
	assert.True(t, a.IsLooping(CueLaser))
	a.Stop(CueLaser)
	assert.False(t, a.IsLooping(CueLaser))

	a.Loop("unknown")
	assert.False(t, a.IsLooping("unknown"), "Неизвестный сигнал игнорируется")
}

func TestGroupMask(t *testing.T) {
	assert.True(t, MaskPlayerRay.Has(GroupWalker))
	assert.True(t, MaskPlayerRay.Has(GroupWall))
	assert.False(t, MaskPlayerRay.Has(GroupPlayer))
	assert.True(t, MaskMeleeStrike.Has(GroupPlayer))
	assert.False(t, MaskMeleeStrike.Has(GroupTrap))
}
