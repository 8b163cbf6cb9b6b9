// Package testpattern generates deterministic YUV 4:2:0 planar test
// pictures. Every sample is a pure function of its coordinates and the
// frame index.
package testpattern

import (
	"fmt"
)

const (
	PlaneY = iota
	PlaneCb
	PlaneCr
	NumPlanes
)

// Picture is a tightly packed planar YUV 4:2:0 image: the three planes
// are consecutive slices of one backing buffer and Linesize equals the
// plane width.
type Picture struct {
	Width    int
	Height   int
	Planes   [NumPlanes][]byte
	Linesize [NumPlanes]int

	buf []byte
}

func NewPicture(width, height int) (*Picture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid resolution %dx%d", width, height)
	}
	if width%2 != 0 || height%2 != 0 {
		return nil, fmt.Errorf("resolution %dx%d is not a multiple of two", width, height)
	}

	lumaSize := width * height
	chromaSize := lumaSize / 4
	pic := &Picture{
		Width:  width,
		Height: height,
		buf:    make([]byte, lumaSize+2*chromaSize),
	}
	pic.Planes[PlaneY] = pic.buf[:lumaSize:lumaSize]
	pic.Planes[PlaneCb] = pic.buf[lumaSize : lumaSize+chromaSize : lumaSize+chromaSize]
	pic.Planes[PlaneCr] = pic.buf[lumaSize+chromaSize:]
	pic.Linesize = [NumPlanes]int{width, width / 2, width / 2}
	return pic, nil
}

// Bytes returns all planes as one contiguous buffer (Y, then Cb, then Cr).
func (p *Picture) Bytes() []byte {
	return p.buf
}

func (p *Picture) PlaneHeight(plane int) int {
	if plane == PlaneY {
		return p.Height
	}
	return p.Height / 2
}

func (p *Picture) PlaneWidth(plane int) int {
	if plane == PlaneY {
		return p.Width
	}
	return p.Width / 2
}

func (p *Picture) At(plane, x, y int) byte {
	return p.Planes[plane][y*p.Linesize[plane]+x]
}
