package testpattern

// Generator regenerates the content of pic for the frame with the given
// index. It must not retain pic.
type Generator func(pic *Picture, frameIndex int)

var _ Generator = Fill

func Luma(x, y, frameIndex int) byte {
	return byte(x + y + frameIndex*3)
}

func Cb(x, y, frameIndex int) byte {
	return byte(128 + y + frameIndex*2)
}

func Cr(x, y, frameIndex int) byte {
	return byte(64 + x + frameIndex*5)
}

// Fill draws the moving gradient test pattern for frame frameIndex.
func Fill(pic *Picture, frameIndex int) {
	y0 := pic.Planes[PlaneY]
	stride := pic.Linesize[PlaneY]
	for y := 0; y < pic.Height; y++ {
		row := y0[y*stride : y*stride+pic.Width]
		for x := range row {
			row[x] = Luma(x, y, frameIndex)
		}
	}

	cb, cr := pic.Planes[PlaneCb], pic.Planes[PlaneCr]
	cbStride, crStride := pic.Linesize[PlaneCb], pic.Linesize[PlaneCr]
	for y := 0; y < pic.Height/2; y++ {
		for x := 0; x < pic.Width/2; x++ {
			cb[y*cbStride+x] = Cb(x, y, frameIndex)
			cr[y*crStride+x] = Cr(x, y, frameIndex)
		}
	}
}
