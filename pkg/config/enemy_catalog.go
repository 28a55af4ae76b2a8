package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnemySize 敌人碰撞尺寸
type EnemySize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// EnemyDef 单个敌人类型的静态属性
type EnemyDef struct {
	ID             string    `yaml:"id"`
	Name           string    `yaml:"name"`
	BaseHealth     float64   `yaml:"baseHealth"`
	BaseSpeed      float64   `yaml:"baseSpeed"`  // 单位/秒
	BaseReward     int       `yaml:"baseReward"` // 击杀奖励金钱
	Size           EnemySize `yaml:"size"`
	Flying         bool      `yaml:"flying"`
	IsBoss         bool      `yaml:"isBoss"`
	SpecialAbility string    `yaml:"specialAbility"` // 仅作为标签透传给表现层
}

// EnemyCatalog 敌人类型目录
type EnemyCatalog struct {
	Enemies []EnemyDef `yaml:"enemies"`

	byID map[string]*EnemyDef
}

// Get 按类型ID查找敌人定义
func (c *EnemyCatalog) Get(id string) (*EnemyDef, bool) {
	def, ok := c.byID[id]
	return def, ok
}

// LoadEnemyCatalog 从 YAML 文件加载敌人目录
func LoadEnemyCatalog(filePath string) (*EnemyCatalog, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemy catalog file %s: %w", filePath, err)
	}
	return ParseEnemyCatalog(data)
}

// ParseEnemyCatalog 从 YAML 数据解析敌人目录
func ParseEnemyCatalog(data []byte) (*EnemyCatalog, error) {
	var catalog EnemyCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse enemy catalog YAML: %w", err)
	}

	if err := validateEnemyCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("invalid enemy catalog: %w", err)
	}

	catalog.byID = make(map[string]*EnemyDef, len(catalog.Enemies))
	for i := range catalog.Enemies {
		catalog.byID[catalog.Enemies[i].ID] = &catalog.Enemies[i]
	}

	return &catalog, nil
}

// validateEnemyCatalog 验证敌人目录的完整性和合法性
func validateEnemyCatalog(catalog *EnemyCatalog) error {
	if len(catalog.Enemies) == 0 {
		return fmt.Errorf("at least one enemy type is required")
	}

	seen := make(map[string]bool, len(catalog.Enemies))
	for _, def := range catalog.Enemies {
		if def.ID == "" {
			return fmt.Errorf("enemy id cannot be empty")
		}
		if seen[def.ID] {
			return fmt.Errorf("duplicate enemy id %q", def.ID)
		}
		seen[def.ID] = true

		if def.BaseHealth <= 0 {
			return fmt.Errorf("enemy %s: baseHealth must be positive, got %v", def.ID, def.BaseHealth)
		}
		if def.BaseSpeed < 0 {
			return fmt.Errorf("enemy %s: baseSpeed cannot be negative, got %v", def.ID, def.BaseSpeed)
		}
		if def.BaseReward < 0 {
			return fmt.Errorf("enemy %s: baseReward cannot be negative, got %d", def.ID, def.BaseReward)
		}
	}

	return nil
}
