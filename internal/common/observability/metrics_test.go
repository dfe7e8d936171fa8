package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilObservabilityIsNoOp(t *testing.T) {
	var o *Observability
	assert.NotPanics(t, func() {
		o.RecordBatch(context.Background(), "success", time.Second, 3, 1)
		o.Shutdown()
	})
	assert.NotPanics(t, func() {
		(&Observability{}).RecordBatch(context.Background(), "error", 0, 0, 0)
	})
}

func TestRecordBatch(t *testing.T) {
	o, err := New("enrich-test")
	require.NoError(t, err)
	defer o.Shutdown()

	assert.NotPanics(t, func() {
		o.RecordBatch(context.Background(), "success", 1500*time.Millisecond, 2, 1)
	})
}
