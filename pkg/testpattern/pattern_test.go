package testpattern

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPicture(t *testing.T) {
	pic, err := NewPicture(352, 288)
	require.NoError(t, err)
	assert.Len(t, pic.Bytes(), 352*288*3/2)
	assert.Equal(t, [NumPlanes]int{352, 176, 176}, pic.Linesize)
	assert.Len(t, pic.Planes[PlaneY], 352*288)
	assert.Len(t, pic.Planes[PlaneCb], 176*144)
	assert.Len(t, pic.Planes[PlaneCr], 176*144)
	assert.Equal(t, 144, pic.PlaneHeight(PlaneCr))
	assert.Equal(t, 176, pic.PlaneWidth(PlaneCb))

	for _, tc := range []struct{ w, h int }{{351, 288}, {352, 287}, {0, 2}, {2, -2}} {
		_, err := NewPicture(tc.w, tc.h)
		assert.Error(t, err, "%dx%d", tc.w, tc.h)
	}
}

func TestFillFormulas(t *testing.T) {
	pic, err := NewPicture(352, 288)
	require.NoError(t, err)

	for _, frameIndex := range []int{0, 1, 24, 100} {
		Fill(pic, frameIndex)
		for _, xy := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {175, 143}, {351, 287}, {200, 100}} {
			x, y := xy[0], xy[1]
			assert.Equal(t, byte((x+y+3*frameIndex)%256), pic.At(PlaneY, x, y))
			if x < pic.Width/2 && y < pic.Height/2 {
				assert.Equal(t, byte((128+y+2*frameIndex)%256), pic.At(PlaneCb, x, y))
				assert.Equal(t, byte((64+x+5*frameIndex)%256), pic.At(PlaneCr, x, y))
			}
		}
	}
}

func TestFillDeterministic(t *testing.T) {
	a, err := NewPicture(64, 48)
	require.NoError(t, err)
	b, err := NewPicture(64, 48)
	require.NoError(t, err)

	Fill(a, 7)
	Fill(b, 3)
	assert.False(t, bytes.Equal(a.Bytes(), b.Bytes()))
	Fill(b, 7)
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestFillOverwritesEverything(t *testing.T) {
	pic, err := NewPicture(16, 16)
	require.NoError(t, err)
	for i := range pic.Bytes() {
		pic.Bytes()[i] = 0xFF
	}
	Fill(pic, 0)

	ref, err := NewPicture(16, 16)
	require.NoError(t, err)
	Fill(ref, 0)
	assert.Equal(t, ref.Bytes(), pic.Bytes())
}
