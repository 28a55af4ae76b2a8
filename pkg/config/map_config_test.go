package config

import (
	"math"
	"strings"
	"testing"

	"github.com/gonewx/tdsim/pkg/utils"
)

func TestNewPath_Lengths(t *testing.T) {
	p := NewPath([]utils.Point{{X: 0, Y: 0}, {X: 30, Y: 40}, {X: 30, Y: 40}, {X: 30, Y: 100}})

	if p.SegmentCount() != 3 {
		t.Fatalf("SegmentCount() = %d, want 3", p.SegmentCount())
	}
	if p.SegmentLength(0) != 50 || p.SegmentLength(1) != 0 || p.SegmentLength(2) != 60 {
		t.Errorf("unexpected segment lengths: %v %v %v", p.SegmentLength(0), p.SegmentLength(1), p.SegmentLength(2))
	}
	if p.TotalLength() != 110 {
		t.Errorf("TotalLength() = %v, want 110", p.TotalLength())
	}
	if p.LengthBefore(2) != 50 || p.LengthBefore(0) != 0 || p.LengthBefore(9) != 110 {
		t.Error("unexpected prefix lengths")
	}
	if p.SegmentLength(-1) != 0 || p.SegmentLength(3) != 0 {
		t.Error("out-of-range segment should have length 0")
	}
}

func TestNewPath_CopiesPoints(t *testing.T) {
	points := []utils.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	p := NewPath(points)
	points[1].X = 999
	if p.Points[1].X != 10 || math.Abs(p.TotalLength()-10) > 1e-9 {
		t.Error("path should not alias the caller's slice")
	}
}

func TestParseMapConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		errContains string
		validate    func(*testing.T, *MapConfig)
	}{
		{
			name: "默认战场尺寸",
			yamlContent: `
id: test
name: Test
startingMoney: 100
lives: 5
path: [{x: 0, y: 0}, {x: 100, y: 0}]
buildableAreas: [{x: 0, y: 50, width: 100, height: 50}]
`,
			validate: func(t *testing.T, m *MapConfig) {
				if m.Width != 800 || m.Height != 600 {
					t.Errorf("expected default 800x600, got %vx%v", m.Width, m.Height)
				}
				if m.Path().TotalLength() != 100 {
					t.Errorf("unexpected path length %v", m.Path().TotalLength())
				}
				if !m.InBounds(800, 600) || m.InBounds(-1, 10) || m.InBounds(10, 601) {
					t.Error("unexpected bounds check result")
				}
			},
		},
		{
			name:        "路径点不足",
			yamlContent: "id: x\nlives: 1\npath: [{x: 0, y: 0}]\n",
			errContains: "at least 2 points",
		},
		{
			name:        "生命值为0",
			yamlContent: "id: x\nlives: 0\npath: [{x: 0, y: 0}, {x: 1, y: 1}]\n",
			errContains: "lives must be >= 1",
		},
		{
			name:        "缺少ID",
			yamlContent: "lives: 3\npath: [{x: 0, y: 0}, {x: 1, y: 1}]\n",
			errContains: "map id cannot be empty",
		},
		{
			name: "非法建造区域",
			yamlContent: `
id: x
lives: 3
path: [{x: 0, y: 0}, {x: 1, y: 1}]
buildableAreas: [{x: 0, y: 0, width: 0, height: 10}]
`,
			errContains: "non-positive size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMapConfig([]byte(tt.yamlContent))
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("expected error containing %q, got %v", tt.errContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.validate(t, m)
		})
	}
}
