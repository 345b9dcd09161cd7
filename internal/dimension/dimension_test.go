package dimension

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iiroan/startpage/internal/prefs"
)

type fakeRoot struct {
	props   map[string]string
	outputs map[Axis]string
	inputs  map[Axis]int
}

func newFakeRoot() *fakeRoot {
	return &fakeRoot{props: map[string]string{}, outputs: map[Axis]string{}, inputs: map[Axis]int{}}
}

func (f *fakeRoot) SetProperty(name, value string)     { f.props[name] = value }
func (f *fakeRoot) SetOutput(axis Axis, text string)   { f.outputs[axis] = text }
func (f *fakeRoot) SetInputValue(axis Axis, value int) { f.inputs[axis] = value }

var iconRange = prefs.Range{Min: 32, Max: 96}

func newTestController(root *fakeRoot, commits *[][2]int) *Controller {
	return New(iconRange, iconRange, 48, 48, Options{
		Properties: root,
		Display:    root,
		Input:      root,
		Commit: func(w, h int) {
			*commits = append(*commits, [2]int{w, h})
		},
	})
}

func TestNewAppliesInitialValuesWithoutPersisting(t *testing.T) {
	root := newFakeRoot()
	var commits [][2]int
	newTestController(root, &commits)

	assert.Equal(t, "48px", root.props["--icon-wrapper-width"])
	assert.Equal(t, "48px", root.props["--icon-wrapper-height"])
	assert.Equal(t, "48 px", root.outputs[Width])
	assert.Empty(t, commits)
}

func TestSetClampsAndWritesBack(t *testing.T) {
	root := newFakeRoot()
	var commits [][2]int
	ctrl := newTestController(root, &commits)

	got := ctrl.Set(Width, 200, false)
	assert.Equal(t, 96, got)
	assert.Equal(t, "96px", root.props["--icon-wrapper-width"])
	assert.Equal(t, "96 px", root.outputs[Width])
	assert.Equal(t, 96, root.inputs[Width], "control is rewritten with the clamped value")
	assert.Empty(t, commits, "live input never persists")

	ctrl.Set(Height, 10, true)
	assert.Equal(t, [][2]int{{96, 32}}, commits)
}

func TestSetRawNonFiniteClampsToMinimum(t *testing.T) {
	root := newFakeRoot()
	var commits [][2]int
	ctrl := newTestController(root, &commits)

	for _, raw := range []string{"", "abc", "NaN", "Inf"} {
		assert.Equal(t, 32, ctrl.SetRaw(Width, raw, false), raw)
	}
	assert.Equal(t, 64, ctrl.SetRaw(Width, " 64px ", false))
	assert.Equal(t, 32, ctrl.Set(Width, math.Inf(1), false))
}

func TestClampProperties(t *testing.T) {
	root := newFakeRoot()
	var commits [][2]int
	ctrl := newTestController(root, &commits)

	for _, v := range []float64{-1e9, -1, 0, 31.4, 32, 50.5, 96, 96.6, 1e9, math.NaN()} {
		got := ctrl.Set(Width, v, false)
		assert.True(t, iconRange.Contains(got), "value %v", v)
		assert.Equal(t, got, ctrl.Set(Width, float64(got), false))
	}
}

func TestStepAndCommit(t *testing.T) {
	root := newFakeRoot()
	var commits [][2]int
	ctrl := newTestController(root, &commits)

	ctrl.Step(Width, 4, false)
	ctrl.Step(Width, 4, false)
	assert.Equal(t, 56, ctrl.Value(Width))
	assert.Empty(t, commits)

	ctrl.Commit()
	assert.Equal(t, [][2]int{{56, 48}}, commits)
}

func TestMissingCollaboratorsAreNoOps(t *testing.T) {
	ctrl := New(iconRange, iconRange, 48, 48, Options{})
	assert.NotPanics(t, func() {
		ctrl.Set(Width, 70, true)
		ctrl.Commit()
	})
	assert.Equal(t, 70, ctrl.Value(Width))
}

func TestCells(t *testing.T) {
	assert.Equal(t, 6, Cells(48, 8))
	assert.Equal(t, 3, Cells(48, 16))
	assert.Equal(t, 1, Cells(4, 16))
	assert.Equal(t, 1, Cells(48, 0))
}
