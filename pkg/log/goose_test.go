package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestMigrationLogger_Printf(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	NewMigrationLogger(ctx).Printf("OK   %s (%s)\n", "00001_init.sql", "1.2ms")

	assert.JSONEq(t,
		`{"level":"info","component":"migrate","message":"OK   00001_init.sql (1.2ms)"}`,
		buf.String())
}
