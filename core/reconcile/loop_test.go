package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"deluge-submit/core/deluge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsCallbacksInOrder(t *testing.T) {
	loop := NewLoop()
	var got []int

	state, err := loop.Run(context.Background(), func() {
		got = append(got, 1)
		loop.Post(func() { got = append(got, 2) })
		loop.Post(func() {
			got = append(got, 3)
			loop.Stop(LoopDone)
		})
	})
	require.NoError(t, err)
	assert.Equal(t, LoopDone, state)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestLoop_Busy(t *testing.T) {
	loop := NewLoop()
	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan LoopState, 1)

	go func() {
		state, _ := loop.Run(context.Background(), func() {
			close(started)
			go func() {
				<-release
				loop.Post(func() { loop.Stop(LoopDone) })
			}()
		})
		finished <- state
	}()
	<-started

	_, err := loop.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrLoopBusy)

	close(release)
	assert.Equal(t, LoopDone, <-finished)

	_, err = loop.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrLoopBusy)
}

func TestLoop_Stalled(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	state, err := loop.Run(ctx, func() {})
	assert.ErrorIs(t, err, ErrLoopStalled)
	assert.Equal(t, LoopAborted, state)
}

func TestLoop_StopOnlyOnce(t *testing.T) {
	loop := NewLoop()
	var first, second bool

	state, err := loop.Run(context.Background(), func() {
		first = loop.Stop(LoopDone)
		second = loop.Stop(LoopAborted)
	})
	require.NoError(t, err)
	assert.Equal(t, LoopDone, state)
	assert.True(t, first)
	assert.False(t, second)
	assert.False(t, loop.Stop(LoopRunning))
}

func TestAwait(t *testing.T) {
	loop := NewLoop()
	f := deluge.NewFuture[string]()
	var got string
	var gotErr error

	state, err := loop.Run(context.Background(), func() {
		Await(loop, f, func(v string, err error) {
			got, gotErr = v, err
			loop.Stop(LoopDone)
		})
		go f.Resolve("abc")
	})
	require.NoError(t, err)
	assert.Equal(t, LoopDone, state)
	assert.Equal(t, "abc", got)
	assert.NoError(t, gotErr)
}

func TestAwait_Rejected(t *testing.T) {
	loop := NewLoop()
	boom := errors.New("boom")
	var gotErr error

	_, err := loop.Run(context.Background(), func() {
		Await(loop, deluge.Rejected[struct{}](boom), func(_ struct{}, err error) {
			gotErr = err
			loop.Stop(LoopDone)
		})
	})
	require.NoError(t, err)
	assert.ErrorIs(t, gotErr, boom)
}

func TestJoin(t *testing.T) {
	fired := 0
	j := newJoin(func() { fired++ })

	j.add()
	j.add()
	j.done()
	assert.Zero(t, fired)

	j.seal()
	assert.Zero(t, fired)

	j.done()
	assert.Equal(t, 1, fired)

	j.seal()
	assert.Equal(t, 1, fired)
}

func TestJoin_EmptyFiresOnSeal(t *testing.T) {
	fired := 0
	j := newJoin(func() { fired++ })
	j.seal()
	assert.Equal(t, 1, fired)
}

func TestLoopState_JSON(t *testing.T) {
	out, err := json.Marshal(BatchResult{BatchID: "b", Mode: ModeAsync, Loop: LoopDone})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"loop":"done"`)
	assert.Contains(t, string(out), `"mode":"async"`)
}
