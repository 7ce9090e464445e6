package pipeline

import "github.com/go-gl/mathgl/mgl32"

// Vec3Vec4Padding is the number of float32 lanes one Vec3 occupies once
// uploaded into a Vec4-laid-out GPU buffer (16-byte alignment): three
// data lanes plus one padding lane.
const Vec3Vec4Padding = 4

// BlitPart copies src into dst starting at dstOffset. It is the
// unpadded case: dst and src share the same element type.
func BlitPart[T any](dst []T, src []T, dstOffset int) {
	copy(dst[dstOffset:], src)
}

// BlitPartPadded writes src (Vec3) into dst (Vec4) starting at
// dstOffset, one Vec4 per Vec3. The 4th lane of each destination
// element is left untouched, matching the GPU layout's padding slot.
func BlitPartPadded(dst []mgl32.Vec4, src []mgl32.Vec3, dstOffset int) {
	for i, v := range src {
		dst[dstOffset+i] = mgl32.Vec4{v.X(), v.Y(), v.Z(), dst[dstOffset+i].W()}
	}
}
