package config

import (
	"fmt"
	"os"

	"github.com/gonewx/tdsim/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Path 敌人行进路线（折线）
// 创建后只读，由所有敌人共享
type Path struct {
	Points []utils.Point

	segmentLengths []float64
	prefixLengths  []float64 // prefixLengths[i] = 第 i 段之前所有线段长度之和
	totalLength    float64
}

// NewPath 根据路径点构建路径并预计算线段长度
func NewPath(points []utils.Point) *Path {
	p := &Path{
		Points: append([]utils.Point(nil), points...),
	}

	segments := len(points) - 1
	if segments < 0 {
		segments = 0
	}
	p.segmentLengths = make([]float64, segments)
	p.prefixLengths = make([]float64, segments)

	for i := 0; i < segments; i++ {
		a, b := points[i], points[i+1]
		p.prefixLengths[i] = p.totalLength
		p.segmentLengths[i] = utils.Distance(a.X, a.Y, b.X, b.Y)
		p.totalLength += p.segmentLengths[i]
	}

	return p
}

// SegmentCount 返回线段数量
func (p *Path) SegmentCount() int {
	return len(p.segmentLengths)
}

// SegmentLength 返回第 i 段长度，越界返回 0
func (p *Path) SegmentLength(i int) float64 {
	if i < 0 || i >= len(p.segmentLengths) {
		return 0
	}
	return p.segmentLengths[i]
}

// LengthBefore 返回第 i 段起点之前的累计长度
func (p *Path) LengthBefore(i int) float64 {
	if i <= 0 {
		return 0
	}
	if i >= len(p.prefixLengths) {
		return p.totalLength
	}
	return p.prefixLengths[i]
}

// TotalLength 返回路径总长度
func (p *Path) TotalLength() float64 {
	return p.totalLength
}

// Start 返回路径起点
func (p *Path) Start() utils.Point {
	if len(p.Points) == 0 {
		return utils.Point{}
	}
	return p.Points[0]
}

// MapConfig 单张地图的配置
type MapConfig struct {
	ID             string        `yaml:"id"`
	Name           string        `yaml:"name"`
	Width          float64       `yaml:"width"`
	Height         float64       `yaml:"height"`
	StartingMoney  int           `yaml:"startingMoney"`
	Lives          int           `yaml:"lives"`
	PathPoints     []utils.Point `yaml:"path"`
	BuildableAreas []utils.Rect  `yaml:"buildableAreas"`

	path *Path
}

// Path 返回地图的共享路径
func (m *MapConfig) Path() *Path {
	return m.path
}

// InBounds 判断点是否在战场范围内（边界包含在内）
func (m *MapConfig) InBounds(x, y float64) bool {
	return x >= 0 && x <= m.Width && y >= 0 && y <= m.Height
}

// LoadMapConfig 从 YAML 文件加载地图配置
func LoadMapConfig(filePath string) (*MapConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", filePath, err)
	}

	m, err := ParseMapConfig(data)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", filePath, err)
	}
	return m, nil
}

// ParseMapConfig 从 YAML 数据解析地图配置
func ParseMapConfig(data []byte) (*MapConfig, error) {
	var m MapConfig
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse map YAML: %w", err)
	}

	if m.Width == 0 {
		m.Width = 800
	}
	if m.Height == 0 {
		m.Height = 600
	}

	if err := validateMapConfig(&m); err != nil {
		return nil, fmt.Errorf("invalid map config: %w", err)
	}

	m.path = NewPath(m.PathPoints)
	return &m, nil
}

// validateMapConfig 验证地图配置
func validateMapConfig(m *MapConfig) error {
	if m.ID == "" {
		return fmt.Errorf("map id cannot be empty")
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("map %s: width and height must be positive", m.ID)
	}
	if len(m.PathPoints) < 2 {
		return fmt.Errorf("map %s: path needs at least 2 points, got %d", m.ID, len(m.PathPoints))
	}
	if m.StartingMoney < 0 {
		return fmt.Errorf("map %s: startingMoney cannot be negative, got %d", m.ID, m.StartingMoney)
	}
	if m.Lives < 1 {
		return fmt.Errorf("map %s: lives must be >= 1, got %d", m.ID, m.Lives)
	}
	for i, area := range m.BuildableAreas {
		if area.Width <= 0 || area.Height <= 0 {
			return fmt.Errorf("map %s: buildable area %d has non-positive size", m.ID, i)
		}
	}
	return nil
}
