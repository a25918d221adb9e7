// Package icon draws the tray icons.
package icon

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// Size is the icon edge in pixels.
const Size = 64

var (
	Gray   = color.RGBA{128, 128, 128, 255}
	Green  = color.RGBA{60, 170, 90, 255}
	Orange = color.RGBA{230, 160, 50, 255}
	Blue   = color.RGBA{70, 130, 220, 255}
)

// Microphone returns a PNG of a filled circle on a short stand in c.
func Microphone(c color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))

	cx, cy := Size/2, Size/2
	const radius = 20
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, c)
			}
		}
	}
	for y := cy + radius; y < cy+radius+10 && y < Size; y++ {
		for x := cx - 3; x <= cx+3; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	// Encoding an in-memory RGBA image cannot fail.
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
