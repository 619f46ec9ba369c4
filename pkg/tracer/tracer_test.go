package tracer

import (
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJaegerTracer(t *testing.T) {
	prev := opentracing.GlobalTracer()
	t.Cleanup(func() { opentracing.SetGlobalTracer(prev) })

	// UDP 发送端不需要 agent 在线
	tr, closer, err := NewJaegerTracer("fast-file-share-test", "127.0.0.1:6831")
	require.NoError(t, err)
	defer closer.Close()

	assert.Same(t, tr, opentracing.GlobalTracer())

	span := tr.StartSpan("ping")
	span.Finish()
}
