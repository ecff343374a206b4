package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/mallasudi/smartschool/core"
	"github.com/mallasudi/smartschool/core/user"
)

func TestRollbarLogger_Print(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST"})

	usr := user.User{ID: "42", Username: "awe", Email: "awe@test.cd", Password: "secret"}
	logger.Info("password reset", usr)
	logger.Error("converting password failed", errors.New("boom"), map[string]interface{}{"user_id": "42"})

	out := buf.String()
	assert.Contains(t, out, "INFO password reset")
	assert.Contains(t, out, `user: id=42 username="awe" email="awe@test.cd"`)
	assert.NotContains(t, out, "secret", "passwords must never be logged")
	assert.Contains(t, out, "ERROR converting password failed")
	assert.Contains(t, out, "error: boom")
	assert.Contains(t, out, "user_id:42")
}

func TestRollbarLogger_Prepare(t *testing.T) {
	logger := RollbarLogger{std: log.New(&bytes.Buffer{}, "", 0)}
	usr := user.User{ID: "1"}
	err := errors.New("boom")
	extras := map[string]interface{}{"k": "v"}

	args := logger.prepare("msg", []interface{}{usr, err, user.User{ID: "2"}, extras})
	assert.Equal(t, []interface{}{"msg", err, extras}, args)
}
