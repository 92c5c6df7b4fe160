package video

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/limits"
	"github.com/opd-ai/commsbridge/sdk"
)

// solidI420 builds a w*h I420 frame filled with one colour.
func solidI420(w, h int, y, u, v byte) sdk.VideoFrame {
	cw, ch := (w+1)/2, (h+1)/2
	return sdk.VideoFrame{
		Format: sdk.PixelFormatI420,
		Width:  w,
		Height: h,
		Y:      fill(w*h, y),
		U:      fill(cw*ch, u),
		V:      fill(cw*ch, v),
	}
}

// solidNV12 builds a w*h NV12 frame filled with one colour.
func solidNV12(w, h int, y, u, v byte) sdk.VideoFrame {
	cw, ch := (w+1)/2, (h+1)/2
	uv := make([]byte, cw*2*ch)
	for i := 0; i < len(uv); i += 2 {
		uv[i] = u
		uv[i+1] = v
	}
	return sdk.VideoFrame{
		Format: sdk.PixelFormatNV12,
		Width:  w,
		Height: h,
		Y:      fill(w*h, y),
		U:      uv,
	}
}

func fill(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func TestConvertKnownColours(t *testing.T) {
	tests := []struct {
		name    string
		y, u, v byte
		want    [4]byte
	}{
		{"black", 16, 128, 128, [4]byte{0xFF, 0, 0, 0}},
		{"white", 235, 128, 128, [4]byte{0xFF, 255, 255, 255}},
		{"red", 81, 90, 240, [4]byte{0xFF, 254, 0, 0}},
		{"below black clamps", 0, 128, 128, [4]byte{0xFF, 0, 0, 0}},
		{"above white clamps", 255, 128, 128, [4]byte{0xFF, 255, 255, 255}},
	}

	for _, tt := range tests {
		for _, frame := range []sdk.VideoFrame{solidI420(4, 2, tt.y, tt.u, tt.v), solidNV12(4, 2, tt.y, tt.u, tt.v)} {
			dst := make([]byte, limits.FrameBufferSize(4, 2))
			require.NoError(t, ConvertARGB(dst, frame), tt.name)
			for px := 0; px < 8; px++ {
				assert.Equal(t, tt.want[:], dst[px*4:px*4+4], "%s format %d pixel %d", tt.name, frame.Format, px)
			}
		}
	}
}

func TestConvertOddDimensions(t *testing.T) {
	for _, frame := range []sdk.VideoFrame{solidI420(3, 3, 235, 128, 128), solidNV12(3, 3, 235, 128, 128)} {
		dst := make([]byte, limits.FrameBufferSize(3, 3))
		require.NoError(t, ConvertARGB(dst, frame))
		assert.Equal(t, byte(255), dst[len(dst)-1])
	}
}

func TestConvertHonoursStride(t *testing.T) {
	frame := solidI420(2, 2, 16, 128, 128)
	// padded luma rows: the padding byte must be ignored
	frame.Y = []byte{235, 16, 0xAA, 16, 16, 0xAA}
	frame.YStride = 3

	dst := make([]byte, limits.FrameBufferSize(2, 2))
	require.NoError(t, ConvertARGB(dst, frame))
	assert.Equal(t, []byte{0xFF, 255, 255, 255}, dst[0:4])
	assert.Equal(t, []byte{0xFF, 0, 0, 0}, dst[4:8])
	assert.Equal(t, []byte{0xFF, 0, 0, 0}, dst[8:12])
}

func TestConvertRejectsBadFrames(t *testing.T) {
	short := solidI420(4, 4, 16, 128, 128)
	short.Y = short.Y[:10]

	shortUV := solidNV12(4, 4, 16, 128, 128)
	shortUV.U = shortUV.U[:3]

	narrow := solidI420(4, 4, 16, 128, 128)
	narrow.YStride = 2

	unknown := solidI420(2, 2, 16, 128, 128)
	unknown.Format = sdk.PixelFormat(9)

	tests := []struct {
		name  string
		frame sdk.VideoFrame
		want  error
	}{
		{"short luma", short, ErrPlaneTooSmall},
		{"short chroma", shortUV, ErrPlaneTooSmall},
		{"stride below width", narrow, ErrPlaneTooSmall},
		{"unknown format", unknown, ErrUnsupportedFormat},
		{"zero size", sdk.VideoFrame{}, limits.ErrInvalidFrameSize},
		{"too large", sdk.VideoFrame{Width: limits.MaxFrameDimension + 1, Height: 1}, limits.ErrInvalidFrameSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, 4*4*4)
			err := ConvertARGB(dst, tt.frame)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	err := ConvertARGB(make([]byte, 4), solidI420(2, 2, 16, 128, 128))
	assert.True(t, errors.Is(err, ErrBufferTooSmall))
}

type delivery struct {
	stream, track string
	width, height int32
	pixels        []byte
	buffer        abi.Bytes
}

func TestSinkDeliversOwnedBuffers(t *testing.T) {
	heap := abi.NewHeapAllocator()
	var got []delivery
	sink := NewSink(heap, func(stream, track abi.Str, w, h int32, argb abi.Bytes) {
		got = append(got, delivery{
			stream: stream.String(),
			track:  track.String(),
			width:  w,
			height: h,
			pixels: append([]byte(nil), argb.Slice()...),
			buffer: argb,
		})
	})

	sink.HandleFrame("stream-1", "track-1", solidNV12(2, 2, 235, 128, 128))
	sink.HandleFrame("stream-1", "track-1", solidI420(2, 2, 16, 128, 128))

	require.Len(t, got, 2)
	assert.Equal(t, "stream-1", got[0].stream)
	assert.Equal(t, "track-1", got[0].track)
	assert.Equal(t, int32(2), got[0].width)
	assert.Equal(t, int32(2), got[0].height)
	assert.Len(t, got[0].pixels, 16)
	assert.Equal(t, byte(255), got[0].pixels[1])
	assert.Equal(t, byte(0), got[1].pixels[1])
	assert.NotEqual(t, got[0].buffer.Data, got[1].buffer.Data, "one allocation per frame")

	// buffer plus two strings per frame, all handed over
	assert.Equal(t, 6, heap.Live())

	delivered, dropped := sink.Stats()
	assert.Equal(t, uint64(2), delivered)
	assert.Equal(t, uint64(0), dropped)
}

func TestSinkDropsMalformedFrames(t *testing.T) {
	heap := abi.NewHeapAllocator()
	var calls int
	sink := NewSink(heap, func(abi.Str, abi.Str, int32, int32, abi.Bytes) { calls++ })

	bad := solidI420(4, 4, 16, 128, 128)
	bad.U = nil
	sink.HandleFrame("s", "t", bad)
	sink.HandleFrame("s", "t", sdk.VideoFrame{Width: -1, Height: 2})

	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, heap.Live(), "dropped frames release their buffers")
	_, dropped := sink.Stats()
	assert.Equal(t, uint64(2), dropped)
}
