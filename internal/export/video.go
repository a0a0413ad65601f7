package export

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/icza/mjpeg"
)

// WriteVideo assembles rendered frames into an MJPEG AVI. All frames must
// share the dimensions of the first.
func WriteVideo(path string, frames []*image.RGBA, fps int32) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to write")
	}
	if fps < 1 {
		fps = 10
	}
	bounds := frames[0].Bounds()
	aw, err := mjpeg.New(path, int32(bounds.Dx()), int32(bounds.Dy()), fps)
	if err != nil {
		return err
	}

	for i, frame := range frames {
		if frame.Bounds() != bounds {
			aw.Close()
			return fmt.Errorf("frame %d has bounds %v, want %v", i, frame.Bounds(), bounds)
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 90}); err != nil {
			aw.Close()
			return err
		}
		if err := aw.AddFrame(buf.Bytes()); err != nil {
			aw.Close()
			return err
		}
	}
	return aw.Close()
}
