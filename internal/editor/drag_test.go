package editor

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/MADrickx/Layma/internal/document"
	"github.com/MADrickx/Layma/internal/geometry"
)

func TestMoveDrag(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(rectElement("el_a", geometry.SectionBody, 10, 10, 20, 20)))

	e.PointerDown(15, 15, PointerTarget{ElementID: "el_a"}, Modifiers{})
	e.PointerUp(40, 40)

	want := geometry.Box{X: 35, Y: 35, W: 20, H: 20}
	if diff := cmp.Diff(want, boxOf(t, e, "el_a")); diff != "" {
		t.Errorf("move result (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"el_a"}, e.SelectionIDs()); diff != "" {
		t.Errorf("selection after move (-want +got):\n%s", diff)
	}
}

func TestMoveSnapsPositionNotSize(t *testing.T) {
	e := newTestEditor(t, true, flatDoc(rectElement("el_a", geometry.SectionBody, 12, 13, 7, 9)))

	e.PointerDown(14, 14, PointerTarget{ElementID: "el_a"}, Modifiers{})
	e.PointerUp(17, 18)

	// Position snaps to the 5mm grid; moving never changes extent.
	want := geometry.Box{X: 15, Y: 15, W: 7, H: 9}
	if diff := cmp.Diff(want, boxOf(t, e, "el_a")); diff != "" {
		t.Errorf("snapped move (-want +got):\n%s", diff)
	}
}

func TestMoveClampsToPage(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(rectElement("el_a", geometry.SectionBody, 10, 10, 20, 20)))

	e.PointerDown(15, 15, PointerTarget{ElementID: "el_a"}, Modifiers{})
	e.PointerUp(1000, 1000)

	want := geometry.Box{X: 190, Y: 277, W: 20, H: 20}
	if diff := cmp.Diff(want, boxOf(t, e, "el_a")); diff != "" {
		t.Errorf("page clamp (-want +got):\n%s", diff)
	}
}

func TestMoveStopsAtSectionBoundary(t *testing.T) {
	e := newTestEditor(t, false, sectionedDoc(
		rectElement("el_body", geometry.SectionBody, 50, 40, 20, 20),
		rectElement("el_head", geometry.SectionHeader, 10, 5, 20, 10),
	))

	// Body element dragged far above the header boundary stops at it,
	// size intact.
	e.PointerDown(60, 50, PointerTarget{ElementID: "el_body"}, Modifiers{})
	e.PointerUp(60, -100)
	want := geometry.Box{X: 50, Y: 30, W: 20, H: 20}
	if diff := cmp.Diff(want, boxOf(t, e, "el_body")); diff != "" {
		t.Errorf("body element crossed into header (-want +got):\n%s", diff)
	}

	// Header element dragged down stops at the header/body boundary.
	e.PointerDown(20, 10, PointerTarget{ElementID: "el_head"}, Modifiers{})
	e.PointerUp(20, 200)
	want = geometry.Box{X: 10, Y: 20, W: 20, H: 10}
	if diff := cmp.Diff(want, boxOf(t, e, "el_head")); diff != "" {
		t.Errorf("header element crossed into body (-want +got):\n%s", diff)
	}
}

func TestMultiMoveSharedDelta(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(
		rectElement("el_a", geometry.SectionBody, 0, 0, 10, 10),
		rectElement("el_b", geometry.SectionBody, 50, 50, 10, 10),
	))
	e.SelectElement("el_a", false)
	e.SelectElement("el_b", true)

	// A plain drag on a member of the multi-selection moves the group.
	e.PointerDown(5, 5, PointerTarget{ElementID: "el_a"}, Modifiers{})
	e.PointerUp(10, 10)

	if diff := cmp.Diff(geometry.Box{X: 5, Y: 5, W: 10, H: 10}, boxOf(t, e, "el_a")); diff != "" {
		t.Errorf("el_a (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geometry.Box{X: 55, Y: 55, W: 10, H: 10}, boxOf(t, e, "el_b")); diff != "" {
		t.Errorf("el_b (-want +got):\n%s", diff)
	}
	if got := e.SelectionIDs(); len(got) != 2 {
		t.Errorf("multi-selection disturbed by group drag: %v", got)
	}
}

func TestMultiMoveClampsEachMember(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(
		rectElement("el_a", geometry.SectionBody, 0, 40, 10, 10),
		rectElement("el_b", geometry.SectionBody, 100, 40, 10, 10),
	))
	e.SelectElement("el_a", false)
	e.SelectElement("el_b", true)

	// Dragging left by 50: el_a hits the page edge, el_b moves freely.
	e.PointerDown(105, 45, PointerTarget{ElementID: "el_b"}, Modifiers{})
	e.PointerUp(55, 45)

	if got := boxOf(t, e, "el_a"); got.X != 0 {
		t.Errorf("el_a x = %v, want 0", got.X)
	}
	if got := boxOf(t, e, "el_b"); got.X != 50 {
		t.Errorf("el_b x = %v, want 50", got.X)
	}
}

func TestMarqueeSelection(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(
		rectElement("el_a", geometry.SectionBody, 0, 0, 10, 10),
		rectElement("el_b", geometry.SectionBody, 50, 50, 10, 10),
	))

	e.PointerDown(0, 0, PointerTarget{}, Modifiers{})
	e.PointerUp(20, 20)
	if diff := cmp.Diff([]string{"el_a"}, e.SelectionIDs()); diff != "" {
		t.Errorf("partial marquee (-want +got):\n%s", diff)
	}

	e.PointerDown(0, 0, PointerTarget{}, Modifiers{})
	e.PointerUp(100, 100)
	if diff := cmp.Diff([]string{"el_a", "el_b"}, e.SelectionIDs()); diff != "" {
		t.Errorf("full marquee (-want +got):\n%s", diff)
	}
}

func TestMarqueeEdgeTouchIsNotOverlap(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(rectElement("el_b", geometry.SectionBody, 50, 50, 10, 10)))

	e.PointerDown(0, 0, PointerTarget{}, Modifiers{})
	e.PointerUp(50, 50)
	if got := e.SelectionIDs(); len(got) != 0 {
		t.Errorf("marquee touching an edge selected %v", got)
	}
}

func TestMarqueeRestrictedToActiveSection(t *testing.T) {
	e := newTestEditor(t, false, sectionedDoc(
		rectElement("el_head", geometry.SectionHeader, 10, 5, 20, 10),
		rectElement("el_body", geometry.SectionBody, 10, 50, 20, 20),
	))

	e.PointerDown(0, 0, PointerTarget{}, Modifiers{})
	e.PointerUp(210, 297)
	if diff := cmp.Diff([]string{"el_body"}, e.SelectionIDs()); diff != "" {
		t.Errorf("marquee crossed sections (-want +got):\n%s", diff)
	}
}

func TestMarqueeDoesNotMutateDocument(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(rectElement("el_a", geometry.SectionBody, 0, 0, 10, 10)))
	before := e.Document()

	e.PointerDown(100, 100, PointerTarget{}, Modifiers{})
	e.PointerMove(150, 150)
	e.Tick()
	if diff := cmp.Diff(before, e.Document()); diff != "" {
		t.Errorf("marquee mutated the document mid-drag:\n%s", diff)
	}
	e.PointerUp(200, 200)
	if diff := cmp.Diff(before, e.Document()); diff != "" {
		t.Errorf("marquee mutated the document on release:\n%s", diff)
	}
}

func TestResizeEastHandle(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(rectElement("el_a", geometry.SectionBody, 10, 40, 40, 20)))
	e.SelectElement("el_a", false)

	e.PointerDown(50, 50, PointerTarget{ElementID: "el_a", Handle: HandleE}, Modifiers{})
	e.PointerUp(70, 50)

	want := geometry.Box{X: 10, Y: 40, W: 60, H: 20}
	if diff := cmp.Diff(want, boxOf(t, e, "el_a")); diff != "" {
		t.Errorf("east resize (-want +got):\n%s", diff)
	}
}

func TestResizePastOppositeEdgeNormalizes(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(rectElement("el_a", geometry.SectionBody, 10, 40, 40, 20)))
	e.SelectElement("el_a", false)

	// Dragging the west handle 50mm right crosses the east edge; the
	// box flips instead of inverting.
	e.PointerDown(10, 50, PointerTarget{ElementID: "el_a", Handle: HandleW}, Modifiers{})
	e.PointerUp(60, 50)

	want := geometry.Box{X: 50, Y: 40, W: 10, H: 20}
	if diff := cmp.Diff(want, boxOf(t, e, "el_a")); diff != "" {
		t.Errorf("flipped resize (-want +got):\n%s", diff)
	}
}

func TestResizeFloorsAtMinimumSize(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(rectElement("el_a", geometry.SectionBody, 10, 40, 40, 20)))
	e.SelectElement("el_a", false)

	e.PointerDown(50, 50, PointerTarget{ElementID: "el_a", Handle: HandleE}, Modifiers{})
	e.PointerUp(10.5, 50)

	if got := boxOf(t, e, "el_a"); got.W != document.MinElementSizeMm {
		t.Errorf("w = %v, want minimum %v", got.W, document.MinElementSizeMm)
	}
}

func lockedImage(id string, x, y, w, h float64) document.Element {
	return document.Element{
		ID: id, Type: document.ElementImage, Section: geometry.SectionBody,
		XMm: x, YMm: y, WidthMm: w, HeightMm: h,
		Image: &document.ImageProps{
			Source: "/assets/asset_a.png", Fit: "contain", Opacity: 1,
			AspectRatioLocked: true, NaturalWidth: 800, NaturalHeight: 400,
		},
	}
}

func TestResizeAspectLockedCorner(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(lockedImage("el_img", 10, 40, 40, 20)))
	e.SelectElement("el_img", false)

	// Corner handles derive height from width; the 2:1 start ratio
	// holds regardless of the pointer's vertical travel.
	e.PointerDown(50, 60, PointerTarget{ElementID: "el_img", Handle: HandleSE}, Modifiers{})
	e.PointerUp(60, 60)

	want := geometry.Box{X: 10, Y: 40, W: 50, H: 25}
	if diff := cmp.Diff(want, boxOf(t, e, "el_img")); diff != "" {
		t.Errorf("aspect-locked corner resize (-want +got):\n%s", diff)
	}
}

func TestResizeAspectLockedVerticalHandle(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(lockedImage("el_img", 10, 40, 40, 20)))
	e.SelectElement("el_img", false)

	// North/south handles derive width from height instead.
	e.PointerDown(30, 40, PointerTarget{ElementID: "el_img", Handle: HandleN}, Modifiers{})
	e.PointerUp(30, 30)

	want := geometry.Box{X: 10, Y: 30, W: 60, H: 30}
	if diff := cmp.Diff(want, boxOf(t, e, "el_img")); diff != "" {
		t.Errorf("aspect-locked vertical resize (-want +got):\n%s", diff)
	}
}

func TestResizeNorthPinsBottomAtSectionTop(t *testing.T) {
	e := newTestEditor(t, false, sectionedDoc(rectElement("el_a", geometry.SectionBody, 50, 40, 20, 20)))
	e.SelectElement("el_a", false)

	// Dragging the top edge past the header boundary clamps the top at
	// the boundary and leaves the bottom edge where it was.
	e.PointerDown(60, 40, PointerTarget{ElementID: "el_a", Handle: HandleN}, Modifiers{})
	e.PointerUp(60, 0)

	want := geometry.Box{X: 50, Y: 30, W: 20, H: 30}
	if diff := cmp.Diff(want, boxOf(t, e, "el_a")); diff != "" {
		t.Errorf("section-clamped resize (-want +got):\n%s", diff)
	}
}

func TestResizeRequiresSingleSelection(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(
		rectElement("el_a", geometry.SectionBody, 10, 40, 20, 20),
		rectElement("el_b", geometry.SectionBody, 50, 40, 20, 20),
	))
	e.SelectElement("el_a", false)
	e.SelectElement("el_b", true)
	before := e.Document()

	e.PointerDown(30, 50, PointerTarget{ElementID: "el_a", Handle: HandleE}, Modifiers{})
	e.PointerUp(100, 50)
	if diff := cmp.Diff(before, e.Document()); diff != "" {
		t.Errorf("resize started against a multi-selection:\n%s", diff)
	}
}

func TestCreateRectDrag(t *testing.T) {
	e := newTestEditor(t, false, flatDoc())
	e.SetTool(ToolRect)

	e.PointerDown(10, 10, PointerTarget{}, Modifiers{})
	e.PointerUp(60, 40)

	doc := e.Document()
	if len(doc.Elements) != 1 {
		t.Fatalf("elements = %d, want 1", len(doc.Elements))
	}
	el := doc.Elements[0]
	if el.Type != document.ElementRect || el.Section != geometry.SectionBody {
		t.Errorf("created %s in %s, want rect in body", el.Type, el.Section)
	}
	want := geometry.Box{X: 10, Y: 10, W: 50, H: 30}
	if diff := cmp.Diff(want, el.Box()); diff != "" {
		t.Errorf("created box (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{el.ID}, e.SelectionIDs()); diff != "" {
		t.Errorf("creation did not select the new element (-want +got):\n%s", diff)
	}
}

func TestCreateDragUpAndLeft(t *testing.T) {
	e := newTestEditor(t, false, flatDoc())
	e.SetTool(ToolRect)

	e.PointerDown(60, 40, PointerTarget{}, Modifiers{})
	e.PointerUp(10, 10)

	want := geometry.Box{X: 10, Y: 10, W: 50, H: 30}
	if diff := cmp.Diff(want, e.Document().Elements[0].Box()); diff != "" {
		t.Errorf("up-left create (-want +got):\n%s", diff)
	}
}

func TestCreateSnapsWholeBox(t *testing.T) {
	e := newTestEditor(t, true, flatDoc())
	e.SetTool(ToolRect)

	e.PointerDown(12, 12, PointerTarget{}, Modifiers{})
	e.PointerUp(33, 27)

	want := geometry.Box{X: 10, Y: 10, W: 20, H: 15}
	if diff := cmp.Diff(want, e.Document().Elements[0].Box()); diff != "" {
		t.Errorf("snapped create (-want +got):\n%s", diff)
	}
}

func TestCreateClampedToActiveSection(t *testing.T) {
	e := newTestEditor(t, false, sectionedDoc())
	e.SetActiveSection(geometry.SectionHeader)
	e.SetTool(ToolRect)

	e.PointerDown(10, 10, PointerTarget{}, Modifiers{})
	e.PointerUp(50, 100)

	el := e.Document().Elements[0]
	if el.Section != geometry.SectionHeader {
		t.Errorf("section = %s, want header", el.Section)
	}
	want := geometry.Box{X: 10, Y: 10, W: 40, H: 20}
	if diff := cmp.Diff(want, el.Box()); diff != "" {
		t.Errorf("create clamped to header band (-want +got):\n%s", diff)
	}
}

func TestCreateImageRequestsSource(t *testing.T) {
	e := newTestEditor(t, false, flatDoc())
	var requested string
	e.OnImageRequest(func(elementID string) { requested = elementID })
	e.SetTool(ToolImage)

	e.PointerDown(10, 10, PointerTarget{}, Modifiers{})
	e.PointerUp(50, 40)

	el := e.Document().Elements[0]
	if el.Type != document.ElementImage || el.Image == nil {
		t.Fatalf("unexpected element: %+v", el)
	}
	if el.Image.Source != "" {
		t.Errorf("placeholder has source %q", el.Image.Source)
	}
	if requested != el.ID {
		t.Errorf("image request for %q, want %q", requested, el.ID)
	}
}

func TestCreateImageUsesPendingUpload(t *testing.T) {
	e := newTestEditor(t, false, flatDoc())
	var requested bool
	e.OnImageRequest(func(string) { requested = true })
	e.SetPendingImage("/assets/asset_a.png", 800, 600)
	e.SetTool(ToolImage)

	// The staged upload carries a 4:3 natural ratio; the create drag
	// locks to it.
	e.PointerDown(10, 10, PointerTarget{}, Modifiers{})
	e.PointerUp(90, 20)

	el := e.Document().Elements[0]
	if el.Image == nil || el.Image.Source != "/assets/asset_a.png" {
		t.Fatalf("pending image not consumed: %+v", el.Image)
	}
	want := geometry.Box{X: 10, Y: 10, W: 80, H: 60}
	if diff := cmp.Diff(want, el.Box()); diff != "" {
		t.Errorf("aspect-locked create (-want +got):\n%s", diff)
	}
	if requested {
		t.Error("image request fired despite a staged source")
	}
}

func TestPointerCancelCommitsLikeRelease(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(rectElement("el_a", geometry.SectionBody, 10, 10, 20, 20)))

	e.PointerDown(15, 15, PointerTarget{ElementID: "el_a"}, Modifiers{})
	e.PointerCancel(40, 40)

	want := geometry.Box{X: 35, Y: 35, W: 20, H: 20}
	if diff := cmp.Diff(want, boxOf(t, e, "el_a")); diff != "" {
		t.Errorf("cancel result (-want +got):\n%s", diff)
	}
}

func TestSecondPointerDownIgnoredDuringDrag(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(
		rectElement("el_a", geometry.SectionBody, 10, 10, 20, 20),
		rectElement("el_b", geometry.SectionBody, 100, 100, 20, 20),
	))

	e.PointerDown(15, 15, PointerTarget{ElementID: "el_a"}, Modifiers{})
	e.PointerDown(105, 105, PointerTarget{ElementID: "el_b"}, Modifiers{})
	e.PointerUp(40, 40)

	want := geometry.Box{X: 35, Y: 35, W: 20, H: 20}
	if diff := cmp.Diff(want, boxOf(t, e, "el_a")); diff != "" {
		t.Errorf("first drag lost (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geometry.Box{X: 100, Y: 100, W: 20, H: 20}, boxOf(t, e, "el_b")); diff != "" {
		t.Errorf("second pointer-down moved el_b (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"el_a"}, e.SelectionIDs()); diff != "" {
		t.Errorf("selection (-want +got):\n%s", diff)
	}
}

func TestReleaseOverridesCoalescedMoves(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(rectElement("el_a", geometry.SectionBody, 10, 10, 20, 20)))

	// Intermediate moves may or may not be consumed by a frame tick
	// before release; the committed geometry depends only on the
	// release point because updates always derive from the start
	// snapshot.
	e.PointerDown(15, 15, PointerTarget{ElementID: "el_a"}, Modifiers{})
	e.PointerMove(30, 30)
	e.PointerMove(70, 70)
	e.PointerUp(50, 50)

	want := geometry.Box{X: 45, Y: 45, W: 20, H: 20}
	if diff := cmp.Diff(want, boxOf(t, e, "el_a")); diff != "" {
		t.Errorf("release geometry (-want +got):\n%s", diff)
	}
}

func TestUnmappableReleaseFallsBackToLastPointer(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(rectElement("el_a", geometry.SectionBody, 10, 10, 20, 20)))

	e.PointerDown(15, 15, PointerTarget{ElementID: "el_a"}, Modifiers{})
	e.PointerMove(40, 40)
	e.PointerUp(math.NaN(), math.NaN())

	want := geometry.Box{X: 35, Y: 35, W: 20, H: 20}
	if diff := cmp.Diff(want, boxOf(t, e, "el_a")); diff != "" {
		t.Errorf("fallback release (-want +got):\n%s", diff)
	}
}

func TestPointerIgnoredWithoutMeasuredSurface(t *testing.T) {
	doc := flatDoc(rectElement("el_a", geometry.SectionBody, 10, 10, 20, 20))
	e := New(document.NewStore(doc), 5, false)
	t.Cleanup(e.Close)
	before := e.Document()

	e.PointerDown(15, 15, PointerTarget{ElementID: "el_a"}, Modifiers{})
	e.PointerUp(40, 40)
	if diff := cmp.Diff(before, e.Document()); diff != "" {
		t.Errorf("pointer input acted without a surface:\n%s", diff)
	}
}

func TestAdditiveClickTogglesMembership(t *testing.T) {
	e := newTestEditor(t, false, flatDoc(
		rectElement("el_a", geometry.SectionBody, 0, 0, 10, 10),
		rectElement("el_b", geometry.SectionBody, 50, 50, 10, 10),
	))
	e.SelectElement("el_a", false)
	e.SelectElement("el_b", true)

	// Shift-clicking a selected member removes it; no drag starts for
	// the removed element.
	e.PointerDown(5, 5, PointerTarget{ElementID: "el_a"}, Modifiers{Shift: true})
	e.PointerUp(30, 30)

	if diff := cmp.Diff([]string{"el_b"}, e.SelectionIDs()); diff != "" {
		t.Errorf("selection after toggle-off (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geometry.Box{X: 0, Y: 0, W: 10, H: 10}, boxOf(t, e, "el_a")); diff != "" {
		t.Errorf("toggled-off element moved (-want +got):\n%s", diff)
	}
}
