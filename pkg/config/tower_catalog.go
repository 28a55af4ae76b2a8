package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectileType 投射物类型
type ProjectileType string

const (
	ProjectileSingle ProjectileType = "single" // 单体
	ProjectileArea   ProjectileType = "area"   // 范围溅射
)

// EffectKind 状态效果种类
type EffectKind string

const (
	EffectNone      EffectKind = ""
	EffectSlow      EffectKind = "slow"
	EffectStun      EffectKind = "stun"
	EffectPoison    EffectKind = "poison"
	EffectFire      EffectKind = "fire"
	EffectConfusion EffectKind = "confusion"
)

// Valid 判断效果种类是否受支持（空值表示无效果）
func (k EffectKind) Valid() bool {
	switch k {
	case EffectNone, EffectSlow, EffectStun, EffectPoison, EffectFire, EffectConfusion:
		return true
	}
	return false
}

// TowerDef 单个防御塔类型的静态属性
type TowerDef struct {
	ID                 string         `yaml:"id"`
	Name               string         `yaml:"name"`
	BaseCost           int            `yaml:"baseCost"`
	BaseDamage         float64        `yaml:"baseDamage"`
	BaseRange          float64        `yaml:"baseRange"`
	BaseSpeed          float64        `yaml:"baseSpeed"` // 每秒攻击次数
	ProjectileType     ProjectileType `yaml:"projectileType"`
	ProjectileEffect   EffectKind     `yaml:"projectileEffect"`
	ProjectileSpeed    float64        `yaml:"projectileSpeed"`
	SplashRadius       float64        `yaml:"splashRadius"`
	BaseEffectPower    float64        `yaml:"baseEffectPower"`
	BaseEffectDuration float64        `yaml:"baseEffectDuration"`
}

// TowerCatalog 防御塔类型目录
type TowerCatalog struct {
	Towers []TowerDef `yaml:"towers"`

	byID map[string]*TowerDef
}

// Get 按类型ID查找防御塔定义
func (c *TowerCatalog) Get(id string) (*TowerDef, bool) {
	def, ok := c.byID[id]
	return def, ok
}

// LoadTowerCatalog 从 YAML 文件加载防御塔目录
func LoadTowerCatalog(filePath string) (*TowerCatalog, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tower catalog file %s: %w", filePath, err)
	}
	return ParseTowerCatalog(data)
}

// ParseTowerCatalog 从 YAML 数据解析防御塔目录
func ParseTowerCatalog(data []byte) (*TowerCatalog, error) {
	var catalog TowerCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse tower catalog YAML: %w", err)
	}

	for i := range catalog.Towers {
		if catalog.Towers[i].ProjectileType == "" {
			catalog.Towers[i].ProjectileType = ProjectileSingle
		}
	}

	if err := validateTowerCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("invalid tower catalog: %w", err)
	}

	catalog.byID = make(map[string]*TowerDef, len(catalog.Towers))
	for i := range catalog.Towers {
		catalog.byID[catalog.Towers[i].ID] = &catalog.Towers[i]
	}

	return &catalog, nil
}

// validateTowerCatalog 验证防御塔目录
func validateTowerCatalog(catalog *TowerCatalog) error {
	if len(catalog.Towers) == 0 {
		return fmt.Errorf("at least one tower type is required")
	}

	seen := make(map[string]bool, len(catalog.Towers))
	for _, def := range catalog.Towers {
		if def.ID == "" {
			return fmt.Errorf("tower id cannot be empty")
		}
		if seen[def.ID] {
			return fmt.Errorf("duplicate tower id %q", def.ID)
		}
		seen[def.ID] = true

		if def.BaseCost < 0 {
			return fmt.Errorf("tower %s: baseCost cannot be negative, got %d", def.ID, def.BaseCost)
		}
		if def.BaseRange <= 0 {
			return fmt.Errorf("tower %s: baseRange must be positive, got %v", def.ID, def.BaseRange)
		}
		if def.BaseSpeed <= 0 {
			return fmt.Errorf("tower %s: baseSpeed must be positive, got %v", def.ID, def.BaseSpeed)
		}
		if def.ProjectileSpeed <= 0 {
			return fmt.Errorf("tower %s: projectileSpeed must be positive, got %v", def.ID, def.ProjectileSpeed)
		}
		switch def.ProjectileType {
		case ProjectileSingle:
		case ProjectileArea:
			if def.SplashRadius <= 0 {
				return fmt.Errorf("tower %s: area projectile requires positive splashRadius", def.ID)
			}
		default:
			return fmt.Errorf("tower %s: unknown projectileType %q", def.ID, def.ProjectileType)
		}
		if !def.ProjectileEffect.Valid() {
			return fmt.Errorf("tower %s: unknown projectileEffect %q", def.ID, def.ProjectileEffect)
		}
		if def.BaseEffectPower < 0 || def.BaseEffectDuration < 0 {
			return fmt.Errorf("tower %s: effect power and duration cannot be negative", def.ID)
		}
	}

	return nil
}
