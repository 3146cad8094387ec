package processor

import (
	"math"
	"testing"
)

func TestTargetDimensions(t *testing.T) {
	tests := []struct {
		name    string
		src     Dimensions
		maxEdge int
		want    Dimensions
	}{
		{name: "landscape truncates", src: Dimensions{3000, 2000}, maxEdge: 1568, want: Dimensions{1568, 1045}},
		{name: "square takes width branch", src: Dimensions{2000, 2000}, maxEdge: 1568, want: Dimensions{1568, 1568}},
		{name: "portrait", src: Dimensions{1000, 3136}, maxEdge: 1568, want: Dimensions{500, 1568}},
		{name: "already optimal", src: Dimensions{1200, 800}, maxEdge: 1568, want: Dimensions{1200, 800}},
		{name: "exactly at bound", src: Dimensions{1568, 1568}, maxEdge: 1568, want: Dimensions{1568, 1568}},
		{name: "one edge over", src: Dimensions{1569, 10}, maxEdge: 1568, want: Dimensions{1568, 9}},
		{name: "unknown stays unknown", src: Dimensions{0, 0}, maxEdge: 1568, want: Dimensions{0, 0}},
		{name: "thin strip truncates to zero", src: Dimensions{10000, 1}, maxEdge: 100, want: Dimensions{100, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TargetDimensions(tt.src, tt.maxEdge); got != tt.want {
				t.Fatalf("TargetDimensions(%v, %d) = %v, want %v", tt.src, tt.maxEdge, got, tt.want)
			}
		})
	}
}

func TestTargetDimensionsNeverUpscales(t *testing.T) {
	const maxEdge = 64
	for w := 0; w <= 200; w += 7 {
		for h := 0; h <= 200; h += 11 {
			got := TargetDimensions(Dimensions{w, h}, maxEdge)
			if w <= maxEdge && h <= maxEdge && got != (Dimensions{w, h}) {
				t.Fatalf("%dx%d changed to %v", w, h, got)
			}
			if got.Width > max(w, maxEdge) || got.Height > max(h, maxEdge) {
				t.Fatalf("%dx%d grew to %v", w, h, got)
			}
			if got.Width > w || got.Height > h {
				t.Fatalf("%dx%d upscaled to %v", w, h, got)
			}
		}
	}
}

func TestTargetDimensionsKeepsAspectRatio(t *testing.T) {
	inputs := []Dimensions{{3000, 2000}, {4032, 3024}, {1920, 1080}, {2480, 3508}, {5000, 1600}}
	for _, src := range inputs {
		got := TargetDimensions(src, 1568)
		want := math.Round(float64(src.Width) / float64(src.Height) * 1000)
		have := math.Round(float64(got.Width) / float64(got.Height) * 1000)
		if math.Abs(want-have) > 10 {
			t.Fatalf("%v -> %v: aspect %v vs %v", src, got, have, want)
		}
	}
}
