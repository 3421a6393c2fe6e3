package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "[test] ", 0), &core.Config{Env: "TEST", TestMode: true})
	logger.Enable(false)

	logger.Warn("rubric missing", map[string]interface{}{"assignment": "Lab 1"}, Person("1", "prof", "prof@example.edu"))
	logger.Error("update failed", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "[test] WARN rubric missing\n")
	assert.Contains(t, out, "map[assignment:Lab 1]\n")
	assert.Contains(t, out, "[test] ERROR update failed\n")
	assert.Contains(t, out, "boom\n")
	assert.NotContains(t, out, "prof@example.edu")
}
