package deluge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuture_CompletesOnce(t *testing.T) {
	f := NewFuture[string]()
	f.Resolve("first")
	f.Resolve("second")
	f.Reject(errors.New("late"))

	v, err := f.Result()
	assert.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestFuture_Go(t *testing.T) {
	ok := Go(func() (int, error) { return 42, nil })
	v, err := ok.Result()
	assert.NoError(t, err)
	assert.Equal(t, 42, v)

	boom := errors.New("boom")
	failed := Go(func() (int, error) { return 0, boom })
	_, err = failed.Result()
	assert.ErrorIs(t, err, boom)
}

func TestFuture_Done(t *testing.T) {
	f := NewFuture[struct{}]()
	select {
	case <-f.Done():
		t.Fatal("future completed before resolve")
	default:
	}

	f.Resolve(struct{}{})
	<-f.Done()

	_, err := Rejected[int](errors.New("x")).Result()
	assert.Error(t, err)
	v, err := Resolved("y").Result()
	assert.NoError(t, err)
	assert.Equal(t, "y", v)
}
