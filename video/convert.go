package video

import (
	"fmt"
	"math"

	"github.com/opd-ai/commsbridge/limits"
	"github.com/opd-ai/commsbridge/sdk"
)

// planes resolves strides and checks that every plane covers the frame.
type planes struct {
	y, u, v                   []byte
	yStride, uStride, vStride int
	nv12                      bool
}

func resolve(frame sdk.VideoFrame) (planes, error) {
	if err := limits.ValidateFrameSize(frame.Width, frame.Height); err != nil {
		return planes{}, err
	}
	w, h := frame.Width, frame.Height
	cw, ch := (w+1)/2, (h+1)/2

	p := planes{
		y:       frame.Y,
		u:       frame.U,
		v:       frame.V,
		yStride: strideOr(frame.YStride, w),
	}
	switch frame.Format {
	case sdk.PixelFormatI420:
		p.uStride = strideOr(frame.UStride, cw)
		p.vStride = strideOr(frame.VStride, cw)
		if err := checkPlane("V", p.v, p.vStride, cw, ch); err != nil {
			return planes{}, err
		}
		if err := checkPlane("U", p.u, p.uStride, cw, ch); err != nil {
			return planes{}, err
		}
	case sdk.PixelFormatNV12:
		p.nv12 = true
		p.uStride = strideOr(frame.UStride, cw*2)
		if err := checkPlane("UV", p.u, p.uStride, cw*2, ch); err != nil {
			return planes{}, err
		}
	default:
		return planes{}, fmt.Errorf("%w: %d", ErrUnsupportedFormat, frame.Format)
	}
	if err := checkPlane("Y", p.y, p.yStride, w, h); err != nil {
		return planes{}, err
	}
	return p, nil
}

func strideOr(stride, def int) int {
	if stride <= 0 {
		return def
	}
	return stride
}

func checkPlane(name string, plane []byte, stride, rowBytes, rows int) error {
	if stride < rowBytes {
		return fmt.Errorf("%w: %s stride %d below row size %d", ErrPlaneTooSmall, name, stride, rowBytes)
	}
	need := (rows-1)*stride + rowBytes
	if len(plane) < need {
		return fmt.Errorf("%w: %s has %d bytes, need %d", ErrPlaneTooSmall, name, len(plane), need)
	}
	return nil
}

// ConvertARGB writes frame into dst as ARGB8888. dst must hold at least
// width*height*4 bytes.
func ConvertARGB(dst []byte, frame sdk.VideoFrame) error {
	p, err := resolve(frame)
	if err != nil {
		return err
	}
	w, h := frame.Width, frame.Height
	if len(dst) < limits.FrameBufferSize(w, h) {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrBufferTooSmall, len(dst), w, h)
	}

	for row := 0; row < h; row++ {
		out := dst[row*w*limits.BytesPerPixel:]
		yRow := p.y[row*p.yStride:]
		uRow := p.u[(row>>1)*p.uStride:]
		var vRow []byte
		if !p.nv12 {
			vRow = p.v[(row>>1)*p.vStride:]
		}

		for col := 0; col < w; col++ {
			var cb, cr int
			if p.nv12 {
				cb = int(uRow[col&^1]) - 128
				cr = int(uRow[col|1]) - 128
			} else {
				cb = int(uRow[col>>1]) - 128
				cr = int(vRow[col>>1]) - 128
			}
			r, g, b := bt601(int(yRow[col]), cb, cr)

			px := out[col*limits.BytesPerPixel:]
			px[0] = 0xFF
			px[1] = r
			px[2] = g
			px[3] = b
		}
	}
	return nil
}

// bt601 converts one limited-range sample. cb and cr are centred on zero.
func bt601(y, cb, cr int) (r, g, b uint8) {
	luma := float64(y-16) * 1.164
	r = clamp(luma + float64(cr)*1.596)
	g = clamp(luma - float64(cb)*0.391 - float64(cr)*0.813)
	b = clamp(luma + float64(cb)*2.018)
	return r, g, b
}

func clamp(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
