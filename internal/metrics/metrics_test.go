package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSim_NilSafe(t *testing.T) {
	var s *Sim
	assert.NotPanics(t, func() {
		s.ObserveFrame(time.Millisecond)
		s.SetDirector(1, 2, 0.5)
		s.SetPlayer(3, 4)
		s.Kill("beam")
		s.Spawn()
		s.PlayerDamaged(-1)
		s.GameOver()
		s.Restart()
		s.SetProcess(1, 2)
	})
}

func TestSim_ExposesMetrics(t *testing.T) {
	s := New("arena")
	s.ObserveFrame(2 * time.Millisecond)
	s.Kill("beam")
	s.Kill("beam")
	s.SetDirector(3, 5, 0.8)
	s.PlayerDamaged(-1)
	s.PlayerDamaged(+1)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `arena_enemies_killed_total{cause="beam"} 2`)
	assert.Contains(t, body, "arena_frames_total 1")
	assert.Contains(t, body, "arena_max_enemies 5")
	assert.Contains(t, body, "arena_player_damage_total 1")
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

func TestProcessSampler_Sample(t *testing.T) {
	s := New("arena")
	ps, err := NewProcessSampler(s)
	require.NoError(t, err)

	stats, err := ps.Sample()
	require.NoError(t, err)
	assert.Greater(t, stats.RSSBytes, uint64(0))
	assert.Greater(t, stats.Goroutines, 0)
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5с", FormatUptime(5*time.Second))
	assert.Equal(t, "2м 3с", FormatUptime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1ч 0м 0с", FormatUptime(time.Hour))
	assert.Equal(t, "1д 1ч 0м 0с", FormatUptime(25*time.Hour))
}
