package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerManager_ComponentLoggers(t *testing.T) {
	lm := GetLoggerManager()

	a, err := lm.GetLogger("test_a")
	require.NoError(t, err)
	again, err := lm.GetLogger("test_a")
	require.NoError(t, err)
	assert.Same(t, a, again, "Повторный запрос должен вернуть тот же логгер")
	assert.Contains(t, lm.ListComponents(), "test_a")

	assert.Error(t, lm.SetLogLevel("missing_component", DEBUG))
}

func TestLogger_WritesComponentField(t *testing.T) {
	l, err := NewLogger("combat_test")
	require.NoError(t, err)

	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetLevel(DEBUG)

	l.WithFields(logrus.Fields{"target_id": 7}).Debug("hit")
	assert.Contains(t, buf.String(), "component=combat_test")
	assert.Contains(t, buf.String(), "target_id=7")

	buf.Reset()
	l.SetLevel(ERROR)
	l.Info("не должно попасть в вывод")
	assert.Empty(t, buf.String())
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "WARN", WARN.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
