package utils

import "math"

// Point 表示战场上的二维坐标
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Distance 计算两点之间的欧氏距离
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared 计算两点之间距离的平方（避免开方）
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// DistanceToSegment 计算点 (px, py) 到线段 a-b 的最短距离
// 退化线段（a == b）按点到点距离处理
func DistanceToSegment(px, py float64, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return Distance(px, py, a.X, a.Y)
	}

	t := ((px-a.X)*dx + (py-a.Y)*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))

	return Distance(px, py, a.X+t*dx, a.Y+t*dy)
}

// Rect 是一个轴对齐矩形区域
type Rect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Contains 判断点是否在矩形内（边界包含在内）
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}
