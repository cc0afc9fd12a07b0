package geometry

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestRotateRoundTrip(t *testing.T) {
	points := []orb.Point{{1, 0}, {0, 1}, {-3.5, 7.25}, {100, -42}}
	angles := []float64{0, 0.3, -1.2, math.Pi / 2, 2, -2, math.Pi}

	for _, p := range points {
		for _, a := range angles {
			back := Rotate(Rotate(p, a), -a)
			if math.Abs(back[0]-p[0]) > 1e-6 || math.Abs(back[1]-p[1]) > 1e-6 {
				t.Errorf("Rotate round trip of %v by %f = %v", p, a, back)
			}
		}
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	got := Rotate(orb.Point{1, 0}, math.Pi/2)
	if math.Abs(got[0]) > 1e-9 || math.Abs(got[1]+1) > 1e-9 {
		t.Errorf("Rotate((1,0), pi/2) = %v, want (0, -1)", got)
	}
}

func TestRotateAllZeroAngleAliases(t *testing.T) {
	pts := []orb.Point{{1, 2}, {3, 4}}
	if got := RotateAll(pts, 0); &got[0] != &pts[0] {
		t.Error("zero-angle rotation should return the input slice")
	}
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name    string
		mesh    Mesh
		wantErr bool
	}{
		{
			name: "valid triangle",
			mesh: Mesh{
				Vertices: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
				Faces:    []int{3, 0, 1, 2},
				Colors:   []int{1, 1, 1},
			},
		},
		{
			name: "color count mismatch",
			mesh: Mesh{
				Vertices: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
				Faces:    []int{3, 0, 1, 2},
				Colors:   []int{1, 1},
			},
			wantErr: true,
		},
		{
			name: "face index out of range",
			mesh: Mesh{
				Vertices: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
				Faces:    []int{3, 0, 1, 5},
				Colors:   []int{1, 1, 1},
			},
			wantErr: true,
		},
		{
			name: "truncated face run",
			mesh: Mesh{
				Vertices: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
				Faces:    []int{3, 0, 1},
				Colors:   []int{1, 1, 1},
			},
			wantErr: true,
		},
		{
			name: "undersized face run",
			mesh: Mesh{
				Vertices: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0},
				Faces:    []int{2, 0, 1},
				Colors:   []int{1, 1, 1},
			},
			wantErr: true,
		},
		{
			name: "truncated vertex buffer",
			mesh: Mesh{
				Vertices: []float64{0, 0, 0, 1},
				Faces:    nil,
				Colors:   []int{1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mesh.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMeshCounts(t *testing.T) {
	m := Mesh{
		Vertices: make([]float64, 24),
		Faces:    []int{4, 0, 1, 2, 3, 3, 4, 5, 6},
		Colors:   make([]int, 8),
	}
	if got := m.VertexCount(); got != 8 {
		t.Errorf("VertexCount() = %d, want 8", got)
	}
	if got := m.FaceCount(); got != 2 {
		t.Errorf("FaceCount() = %d, want 2", got)
	}
}
