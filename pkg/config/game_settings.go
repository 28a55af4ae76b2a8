package config

import (
	"fmt"
	"os"

	"github.com/gonewx/tdsim/pkg/formula"
	"gopkg.in/yaml.v3"
)

// Stat 可升级的防御塔属性
type Stat string

const (
	StatDamage         Stat = "damage"
	StatRange          Stat = "range"
	StatSpeed          Stat = "speed"
	StatEffectPower    Stat = "effectPower"
	StatEffectDuration Stat = "effectDuration"
	StatCost           Stat = "cost"
)

// upgradeStats 所有必须配置公式的属性，以及公式中可用的基础值别名
var upgradeStats = []struct {
	stat  Stat
	alias string
}{
	{StatDamage, "baseDamage"},
	{StatRange, "baseRange"},
	{StatSpeed, "baseSpeed"},
	{StatEffectPower, "baseEffectPower"},
	{StatEffectDuration, "baseEffectDuration"},
	{StatCost, "baseCost"},
}

// BaseAlias 返回属性在公式中的基础值别名（如 damage -> baseDamage）
func BaseAlias(stat Stat) string {
	for _, s := range upgradeStats {
		if s.stat == stat {
			return s.alias
		}
	}
	return "baseValue"
}

// EnemyTier 敌人类型解锁规则
type EnemyTier struct {
	Type    string `yaml:"type"`
	MinWave int    `yaml:"minWave"`
}

// SpawnIntervalConfig 波次内生成间隔: max(min, base - decrementPerWave*wave)
type SpawnIntervalConfig struct {
	Base             float64 `yaml:"base"`
	DecrementPerWave float64 `yaml:"decrementPerWave"`
	Min              float64 `yaml:"min"`
}

// WaveSettings 全局对局与波次设置
type WaveSettings struct {
	MaxWaves          int                 `yaml:"maxWaves"`
	BossWaveFrequency int                 `yaml:"bossWaveFrequency"`
	MaxBossTier       int                 `yaml:"maxBossTier"`
	BossTypePrefix    string              `yaml:"bossTypePrefix"` // boss 类型ID = 前缀 + 阶数
	BossDelay         float64             `yaml:"bossDelay"`      // 最后一个普通敌人之后的延迟（秒）
	PreparationTime   float64             `yaml:"preparationTime"`
	BaseEnemyCount    int                 `yaml:"baseEnemyCount"`
	EnemiesPerWave    float64             `yaml:"enemiesPerWave"`
	SpawnInterval     SpawnIntervalConfig `yaml:"spawnInterval"`
	BaseEnemyType     string              `yaml:"baseEnemyType"`
	EnemyTiers        []EnemyTier         `yaml:"enemyTiers"`
	TickRate          int                 `yaml:"tickRate"` // 每秒模拟步数
	MaxTicksPerUpdate int                 `yaml:"maxTicksPerUpdate"`
}

// FormulaConfig 单条升级公式
type FormulaConfig struct {
	Formula string `yaml:"formula"`
}

// TowerSettings 防御塔建造与升级设置
type TowerSettings struct {
	PlacementSpacing    float64                `yaml:"placementSpacing"` // 与其他塔的最小距离
	PathClearance       float64                `yaml:"pathClearance"`    // 与路径的最小距离
	DemolishRefundRatio float64                `yaml:"demolishRefundRatio"`
	UpgradeFormulas     map[Stat]FormulaConfig `yaml:"upgradeFormulas"`
}

// ProjectileSettings 投射物设置
type ProjectileSettings struct {
	HitRadius float64 `yaml:"hitRadius"`
}

// PathSettings 路径移动设置
type PathSettings struct {
	WaypointSnapDistance float64 `yaml:"waypointSnapDistance"`
}

// GameSettingsConfig game_settings.yaml 的完整结构
type GameSettingsConfig struct {
	GameSettings       WaveSettings       `yaml:"gameSettings"`
	TowerSettings      TowerSettings      `yaml:"towerSettings"`
	ProjectileSettings ProjectileSettings `yaml:"projectileSettings"`
	PathSettings       PathSettings       `yaml:"pathSettings"`

	formulas map[Stat]*formula.Expr
}

// Formula 返回已编译的升级公式
func (c *GameSettingsConfig) Formula(stat Stat) (*formula.Expr, bool) {
	expr, ok := c.formulas[stat]
	return expr, ok
}

// LoadGameSettings 从 YAML 文件加载全局设置
func LoadGameSettings(filePath string) (*GameSettingsConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read game settings file %s: %w", filePath, err)
	}
	return ParseGameSettings(data)
}

// ParseGameSettings 解析全局设置，填充默认值并编译升级公式
func ParseGameSettings(data []byte) (*GameSettingsConfig, error) {
	var cfg GameSettingsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game settings YAML: %w", err)
	}

	applyGameSettingsDefaults(&cfg)

	if err := validateGameSettings(&cfg); err != nil {
		return nil, fmt.Errorf("invalid game settings: %w", err)
	}

	formulas, err := compileUpgradeFormulas(cfg.TowerSettings.UpgradeFormulas)
	if err != nil {
		return nil, fmt.Errorf("invalid upgrade formulas: %w", err)
	}
	cfg.formulas = formulas

	return &cfg, nil
}

// applyGameSettingsDefaults 未配置的字段使用默认值
func applyGameSettingsDefaults(cfg *GameSettingsConfig) {
	gs := &cfg.GameSettings
	if gs.MaxWaves == 0 {
		gs.MaxWaves = 100
	}
	if gs.BossWaveFrequency == 0 {
		gs.BossWaveFrequency = 10
	}
	if gs.MaxBossTier == 0 {
		gs.MaxBossTier = 3
	}
	if gs.BossTypePrefix == "" {
		gs.BossTypePrefix = "boss"
	}
	if gs.BossDelay == 0 {
		gs.BossDelay = 2
	}
	if gs.PreparationTime == 0 {
		gs.PreparationTime = 60
	}
	if gs.BaseEnemyCount == 0 {
		gs.BaseEnemyCount = 10
	}
	if gs.EnemiesPerWave == 0 {
		gs.EnemiesPerWave = 1.5
	}
	if gs.SpawnInterval.Base == 0 {
		gs.SpawnInterval = SpawnIntervalConfig{Base: 0.8, DecrementPerWave: 0.01, Min: 0.2}
	}
	if gs.BaseEnemyType == "" {
		gs.BaseEnemyType = "basic"
	}
	if gs.TickRate == 0 {
		gs.TickRate = 60
	}
	if gs.MaxTicksPerUpdate == 0 {
		gs.MaxTicksPerUpdate = 10
	}

	ts := &cfg.TowerSettings
	if ts.PlacementSpacing == 0 {
		ts.PlacementSpacing = 40
	}
	if ts.PathClearance == 0 {
		ts.PathClearance = 30
	}
	if ts.DemolishRefundRatio == 0 {
		ts.DemolishRefundRatio = 0.5
	}

	if cfg.ProjectileSettings.HitRadius == 0 {
		cfg.ProjectileSettings.HitRadius = 10
	}
	if cfg.PathSettings.WaypointSnapDistance == 0 {
		cfg.PathSettings.WaypointSnapDistance = 5
	}
}

// validateGameSettings 验证全局设置
func validateGameSettings(cfg *GameSettingsConfig) error {
	gs := cfg.GameSettings
	if gs.MaxWaves < 1 {
		return fmt.Errorf("maxWaves must be >= 1, got %d", gs.MaxWaves)
	}
	if gs.BossWaveFrequency < 1 {
		return fmt.Errorf("bossWaveFrequency must be >= 1, got %d", gs.BossWaveFrequency)
	}
	if gs.MaxBossTier < 1 {
		return fmt.Errorf("maxBossTier must be >= 1, got %d", gs.MaxBossTier)
	}
	if gs.BossDelay < 0 || gs.PreparationTime < 0 {
		return fmt.Errorf("bossDelay and preparationTime cannot be negative")
	}
	if gs.BaseEnemyCount < 0 || gs.EnemiesPerWave < 0 {
		return fmt.Errorf("enemy count settings cannot be negative")
	}
	if gs.SpawnInterval.Min < 0 || gs.SpawnInterval.Base < gs.SpawnInterval.Min {
		return fmt.Errorf("spawnInterval must satisfy 0 <= min <= base, got base=%v min=%v",
			gs.SpawnInterval.Base, gs.SpawnInterval.Min)
	}
	for _, tier := range gs.EnemyTiers {
		if tier.Type == "" {
			return fmt.Errorf("enemy tier type cannot be empty")
		}
		if tier.MinWave < 1 {
			return fmt.Errorf("enemy tier %s: minWave must be >= 1, got %d", tier.Type, tier.MinWave)
		}
	}
	if gs.TickRate < 1 || gs.MaxTicksPerUpdate < 1 {
		return fmt.Errorf("tickRate and maxTicksPerUpdate must be >= 1")
	}

	ts := cfg.TowerSettings
	if ts.PlacementSpacing < 0 || ts.PathClearance < 0 {
		return fmt.Errorf("placement distances cannot be negative")
	}
	if ts.DemolishRefundRatio < 0 || ts.DemolishRefundRatio > 1 {
		return fmt.Errorf("demolishRefundRatio must be within [0, 1], got %v", ts.DemolishRefundRatio)
	}

	if cfg.ProjectileSettings.HitRadius < 0 || cfg.PathSettings.WaypointSnapDistance < 0 {
		return fmt.Errorf("hitRadius and waypointSnapDistance cannot be negative")
	}

	return nil
}

// compileUpgradeFormulas 编译所有升级公式，并在 0..10 级上试算一次
// 确保运行时不会出现无法求值的公式
func compileUpgradeFormulas(raw map[Stat]FormulaConfig) (map[Stat]*formula.Expr, error) {
	compiled := make(map[Stat]*formula.Expr, len(upgradeStats))
	for _, s := range upgradeStats {
		fc, ok := raw[s.stat]
		if !ok || fc.Formula == "" {
			return nil, fmt.Errorf("missing formula for %s", s.stat)
		}

		expr, err := formula.Compile(fc.Formula, "baseValue", "level", s.alias)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.stat, err)
		}

		for level := 0; level <= 10; level++ {
			vars := formula.Vars{"baseValue": 1, s.alias: 1, "level": float64(level)}
			if _, err := expr.Eval(vars); err != nil {
				return nil, fmt.Errorf("%s at level %d: %w", s.stat, level, err)
			}
		}

		compiled[s.stat] = expr
	}
	return compiled, nil
}
