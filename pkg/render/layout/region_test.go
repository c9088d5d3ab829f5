package layout

import "testing"

func TestRegionEdges(t *testing.T) {
	tests := []struct {
		name       string
		region     Region
		wantRight  uint32
		wantBottom uint32
	}{
		{"origin", Region{Width: 100, Height: 50}, 100, 50},
		{"offset", Region{X: 8, Y: 16, Width: 20, Height: 4}, 28, 20},
		{"empty", Region{X: 5, Y: 5}, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.region.Right(); got != tt.wantRight {
				t.Errorf("Right() = %v, want %v", got, tt.wantRight)
			}
			if got := tt.region.Bottom(); got != tt.wantBottom {
				t.Errorf("Bottom() = %v, want %v", got, tt.wantBottom)
			}
		})
	}
}

func TestRegionCenter(t *testing.T) {
	tests := []struct {
		name   string
		region Region
		wantX  uint32
		wantY  uint32
	}{
		{"symmetric", Region{Width: 100, Height: 100}, 50, 50},
		{"offset", Region{X: 20, Y: 30, Width: 60, Height: 40}, 50, 50},
		{"odd rounds down", Region{Width: 5, Height: 3}, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.region.CenterX(); got != tt.wantX {
				t.Errorf("CenterX() = %v, want %v", got, tt.wantX)
			}
			if got := tt.region.CenterY(); got != tt.wantY {
				t.Errorf("CenterY() = %v, want %v", got, tt.wantY)
			}
		})
	}
}

func TestRegionIsEmpty(t *testing.T) {
	if !(Region{Width: 10}).IsEmpty() {
		t.Error("IsEmpty() = false for zero height, want true")
	}
	if (Region{Width: 1, Height: 1}).IsEmpty() {
		t.Error("IsEmpty() = true for 1x1, want false")
	}
}
