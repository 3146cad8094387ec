package processor

// TargetDimensions scales src so its longer edge equals maxEdge. Images that
// already fit are returned unchanged; nothing is ever upscaled. A square
// image takes the width branch, and the shorter edge is truncated.
func TargetDimensions(src Dimensions, maxEdge int) Dimensions {
	if src.Width <= maxEdge && src.Height <= maxEdge {
		return src
	}

	if src.Width >= src.Height {
		scale := float64(maxEdge) / float64(src.Width)
		return Dimensions{Width: maxEdge, Height: int(float64(src.Height) * scale)}
	}

	scale := float64(maxEdge) / float64(src.Height)
	return Dimensions{Width: int(float64(src.Width) * scale), Height: maxEdge}
}
