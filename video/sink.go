package video

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/limits"
	"github.com/opd-ai/commsbridge/sdk"
)

// Delegate receives one converted frame. The receiver owns streamID, trackID
// and argb, which holds width*height*4 bytes.
type Delegate func(streamID, trackID abi.Str, width, height int32, argb abi.Bytes)

// Sink converts SDK frames and hands them to a Delegate.
type Sink struct {
	alloc     abi.Allocator
	delegate  Delegate
	delivered atomic.Uint64
	dropped   atomic.Uint64
}

var _ sdk.VideoSink = (*Sink)(nil)

// NewSink creates a sink that allocates frame buffers from alloc.
func NewSink(alloc abi.Allocator, delegate Delegate) *Sink {
	return &Sink{alloc: alloc, delegate: delegate}
}

// HandleFrame implements sdk.VideoSink. It runs on the SDK goroutine.
func (s *Sink) HandleFrame(streamID, trackID string, frame sdk.VideoFrame) {
	arena := abi.NewArena(s.alloc)
	stream, track, buf, err := s.prepare(arena, streamID, trackID, frame)
	if err != nil {
		arena.Rollback()
		s.dropped.Add(1)
		logrus.WithFields(logrus.Fields{
			"function":  "HandleFrame",
			"stream_id": streamID,
			"track_id":  trackID,
			"width":     frame.Width,
			"height":    frame.Height,
			"error":     err.Error(),
		}).Warn("Dropping video frame")
		return
	}
	arena.Commit()
	s.delivered.Add(1)
	s.delegate(stream, track, int32(frame.Width), int32(frame.Height), buf)
}

func (s *Sink) prepare(arena *abi.Arena, streamID, trackID string, frame sdk.VideoFrame) (abi.Str, abi.Str, abi.Bytes, error) {
	if err := limits.ValidateFrameSize(frame.Width, frame.Height); err != nil {
		return abi.Str{}, abi.Str{}, abi.Bytes{}, err
	}
	buf, err := arena.Bytes(limits.FrameBufferSize(frame.Width, frame.Height))
	if err != nil {
		return abi.Str{}, abi.Str{}, abi.Bytes{}, err
	}
	if err := ConvertARGB(buf.Slice(), frame); err != nil {
		return abi.Str{}, abi.Str{}, abi.Bytes{}, err
	}
	stream, err := arena.String(streamID)
	if err != nil {
		return abi.Str{}, abi.Str{}, abi.Bytes{}, err
	}
	track, err := arena.String(trackID)
	if err != nil {
		return abi.Str{}, abi.Str{}, abi.Bytes{}, err
	}
	return stream, track, buf, nil
}

// Stats returns the number of frames delivered and dropped so far.
func (s *Sink) Stats() (delivered, dropped uint64) {
	return s.delivered.Load(), s.dropped.Load()
}
