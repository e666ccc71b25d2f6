package progrock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.trai.ch/pakt/internal/adapters/telemetry/progrock"
)

func TestNew(t *testing.T) {
	recorder := progrock.New()
	assert.NotNil(t, recorder)
}

func TestRecorder_Lifecycle(t *testing.T) {
	recorder := progrock.New()

	ctx, vertex := recorder.Record(context.Background(), "install com.acme.toolkit")
	assert.NotNil(t, ctx)

	vertex.Log("downloading")
	vertex.Complete(nil)

	_, cached := recorder.Record(context.Background(), "install com.acme.base")
	cached.Cached()

	assert.NoError(t, recorder.Close())
}
