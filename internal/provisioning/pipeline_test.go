package provisioning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/imamik/mrpctl/internal/testing"
)

// funcPhase adapts a function to the Phase interface.
type funcPhase struct {
	name string
	fn   func(ctx *Context) error
}

func (p *funcPhase) Name() string                 { return p.name }
func (p *funcPhase) Provision(ctx *Context) error { return p.fn(ctx) }

func phaseFunc(name string, fn func(ctx *Context) error) Phase {
	return &funcPhase{name: name, fn: fn}
}

func TestRunPhases_Success(t *testing.T) {
	t.Parallel()
	executed := make([]string, 0)

	ctx := NewContext(context.Background(), &testutil.MockAPI{}, nil)
	err := RunPhases(ctx, []Phase{
		phaseFunc("machine", func(c *Context) error {
			executed = append(executed, "machine")
			c.State.resolve("machine", 42)
			return nil
		}),
		phaseFunc("kernel", func(_ *Context) error { executed = append(executed, "kernel"); return nil }),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"machine", "kernel"}, executed)
	require.Len(t, ctx.State.Completed, 2)
	assert.Equal(t, int64(42), ctx.State.Completed[0].ID)
	assert.Equal(t, int64(0), ctx.State.Completed[1].ID)
}

func TestRunPhases_StopsOnError(t *testing.T) {
	t.Parallel()
	executed := make([]string, 0)
	boom := errors.New("boom")

	ctx := NewContext(context.Background(), &testutil.MockAPI{}, nil)
	err := RunPhases(ctx, []Phase{
		phaseFunc("machine", func(c *Context) error {
			executed = append(executed, "machine")
			c.State.resolve("machine", 42)
			return nil
		}),
		phaseFunc("kernel", func(_ *Context) error { executed = append(executed, "kernel"); return boom }),
		phaseFunc("initrd", func(_ *Context) error { executed = append(executed, "initrd"); return nil }),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"machine", "kernel"}, executed)

	var wfErr *WorkflowError
	require.ErrorAs(t, err, &wfErr)
	assert.Equal(t, "kernel", wfErr.Phase)
	assert.Equal(t, "kernel phase failed: boom", wfErr.Error())
	assert.Equal(t, "machine=42", wfErr.CompletedSummary())
}

func TestRunPhases_CancelledContext(t *testing.T) {
	t.Parallel()

	cctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	ctx := NewContext(cctx, &testutil.MockAPI{}, nil)
	err := RunPhases(ctx, []Phase{phaseFunc("machine", func(_ *Context) error { ran = true; return nil })})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestWorkflowError_CompletedSummary(t *testing.T) {
	t.Parallel()

	e := &WorkflowError{Phase: "provision", Completed: []CompletedPhase{
		{Name: "machine", ID: 42},
		{Name: "kernel", ID: 11},
		{Name: "check"},
	}}
	assert.Equal(t, "machine=42, kernel=11, check", e.CompletedSummary())
}

func TestZerologObserver_Events(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	obs := NewObserver(zerolog.New(&buf).Level(zerolog.InfoLevel)).
		WithFields(map[string]string{"machine": "dut01"})

	LogPhaseStart(obs, "kernel") // debug, filtered
	LogResourceExists(obs, "image", "image", `Kernel "k1" (arm64)`, 11)
	LogPhaseFailed(obs, "preseed", errors.New("no preseed found"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var exists map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &exists))
	assert.Equal(t, "info", exists["level"])
	assert.Equal(t, "resource.exists", exists["event"])
	assert.Equal(t, "dut01", exists["machine"])
	assert.Equal(t, "11", exists["id"])
	assert.Equal(t, `Kernel "k1" (arm64)`, exists["resource"])
	assert.Equal(t, "image already exists", exists["message"])

	var failed map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &failed))
	assert.Equal(t, "error", failed["level"])
	assert.Equal(t, "preseed", failed["phase"])
	assert.Equal(t, "failed: no preseed found", failed["message"])
}

func TestZerologObserver_WithFieldsDoesNotMutateParent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	parent := NewObserver(zerolog.New(&buf))
	_ = parent.WithFields(map[string]string{"machine": "dut01"})

	parent.Progress("kernel", 2, 6)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "machine")
	assert.Equal(t, float64(2), entry["current"])
	assert.Equal(t, float64(6), entry["total"])
}
