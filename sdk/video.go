package sdk

// PixelFormat is the layout of a decoded video frame.
type PixelFormat int

const (
	// PixelFormatI420 is planar YUV 4:2:0 with separate U and V planes
	PixelFormatI420 PixelFormat = iota
	// PixelFormatNV12 is semi-planar YUV 4:2:0 with interleaved UV in the U plane
	PixelFormatNV12
)

// VideoFrame is a decoded video frame handed to a VideoSink.
type VideoFrame struct {
	Format  PixelFormat
	Width   int
	Height  int
	Y       []byte // Luminance plane
	U       []byte // Chrominance U plane, or interleaved UV for NV12
	V       []byte // Chrominance V plane, unused for NV12
	YStride int
	UStride int
	VStride int
}

// VideoSink receives decoded frames. HandleFrame runs on an SDK goroutine.
type VideoSink interface {
	HandleFrame(streamID, trackID string, frame VideoFrame)
}
