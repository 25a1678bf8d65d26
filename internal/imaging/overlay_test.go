package imaging

import "testing"

func TestClassColor_DistinctAndStable(t *testing.T) {
	a := ClassColor(0)
	b := ClassColor(1)
	if a == b {
		t.Error("adjacent class IDs should map to different colors")
	}
	if a != ClassColor(0) {
		t.Error("class color must be stable across calls")
	}
}

func TestDrawRegions_DoesNotMutateInput(t *testing.T) {
	page := createPatternPage(100, 100)
	before := page.Clone()

	out := DrawRegions(page, []Region{{10, 10, 60, 60}}, []int{1})

	if !pagesEqual(page, before) {
		t.Fatal("DrawRegions must not modify the input page")
	}
	if pagesEqual(out, before) {
		t.Error("overlay page should differ from the input")
	}

	// Border pixels carry the class color.
	want := ClassColor(1)
	if got := out.Image.NRGBAAt(10, 10); got != want {
		t.Errorf("border pixel: got %+v, want %+v", got, want)
	}
}

func TestDrawRegions_SkipsEmptyRegions(t *testing.T) {
	page := createPatternPage(100, 100)

	out := DrawRegions(page, []Region{{200, 200, 300, 300}}, nil)

	if !pagesEqual(out, page) {
		t.Error("out-of-bounds region should draw nothing")
	}
}
