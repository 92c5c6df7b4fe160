package sdk

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureResolveOnce(t *testing.T) {
	f := NewFuture[string]()
	f.Resolve("first")
	f.Resolve("second")
	f.Reject(errors.New("late"))

	v, err := f.Wait()
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestFutureReject(t *testing.T) {
	f := Rejected[int](Fail("conference.join", ErrConferenceNotFound))

	_, err := f.Wait()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConferenceNotFound))
	assert.Equal(t, "conference.join: conference not found", err.Error())

	var sdkErr *Error
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(t, "conference.join", sdkErr.Op)
}

func TestFutureConcurrentWaiters(t *testing.T) {
	f := NewFuture[int]()

	var wg sync.WaitGroup
	results := make([]int, 4)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = f.Wait()
		}()
	}
	f.Resolve(7)
	wg.Wait()

	assert.Equal(t, []int{7, 7, 7, 7}, results)
}

func TestFutureDone(t *testing.T) {
	f := NewFuture[struct{}]()
	select {
	case <-f.Done():
		t.Fatal("future settled early")
	default:
	}

	f.Resolve(struct{}{})
	<-f.Done()
	assert.NotNil(t, Resolved(1).Done())
}

func TestEventKind(t *testing.T) {
	assert.Equal(t, "participant_added", EventParticipantAdded.String())
	assert.True(t, EventInvalidTokenError.Valid())
	assert.False(t, EventKind(0).Valid())
	assert.Equal(t, "unknown", EventKind(99).String())
	assert.Equal(t, EventVideoTrackRemoved, VideoTrackRemoved{}.Kind())
}

func TestSpatialAudioBatchUpdate(t *testing.T) {
	var u SpatialAudioBatchUpdate
	assert.True(t, u.Empty())

	u.SetSpatialPosition("p1", Vector3{X: 1})
	u.SetSpatialDirection(Vector3{Z: 1})
	assert.False(t, u.Empty())
	assert.Equal(t, Vector3{X: 1}, u.Positions["p1"])
	assert.Equal(t, Vector3{Z: 1}, *u.Direction)
}

func TestErrorWithoutCause(t *testing.T) {
	assert.Equal(t, "session.close: failed", Fail("session.close", nil).Error())
}
