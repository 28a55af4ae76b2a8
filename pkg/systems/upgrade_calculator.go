package systems

import (
	"log"
	"math"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/formula"
)

// UpgradeCalculator 根据配置公式计算防御塔升级后的属性和费用
//
// 公式中的 level 是已完成的升级次数，即升级前的等级。
// 报价与实际扣费使用同一个函数，保证两者一致。
type UpgradeCalculator struct {
	settings *config.GameSettingsConfig
}

// NewUpgradeCalculator 创建升级计算器
func NewUpgradeCalculator(settings *config.GameSettingsConfig) *UpgradeCalculator {
	return &UpgradeCalculator{settings: settings}
}

// ComputeStat 计算属性在指定等级下的公式值
// 公式缺失或结果非有限数时返回 baseValue
func (c *UpgradeCalculator) ComputeStat(stat config.Stat, baseValue float64, level int) float64 {
	expr, ok := c.settings.Formula(stat)
	if !ok {
		return baseValue
	}

	value, err := expr.Eval(formula.Vars{
		"baseValue":           baseValue,
		config.BaseAlias(stat): baseValue,
		"level":               float64(level),
	})
	if err != nil {
		log.Printf("[UpgradeCalculator] %s formula failed at level %d: %v", stat, level, err)
		return baseValue
	}
	return value
}

// UpgradeCostAt 从 level 级升到 level+1 级的费用
func (c *UpgradeCalculator) UpgradeCostAt(baseCost, level int) int {
	cost := math.Floor(c.ComputeStat(config.StatCost, float64(baseCost), level))
	if cost < 0 {
		return 0
	}
	return int(cost)
}

// UpgradeCost 防御塔下一次升级的报价
func (c *UpgradeCalculator) UpgradeCost(tower *components.TowerComponent) int {
	return c.UpgradeCostAt(tower.BaseCost, tower.Level)
}

// Apply 将防御塔提升一级并重新计算属性
// 伤害和射程向下取整；攻速、效果强度和持续时间保留小数
// 效果属性只在塔带有效果且基础值非零时重新计算
func (c *UpgradeCalculator) Apply(tower *components.TowerComponent) {
	completed := tower.Level
	tower.Level++

	tower.Damage = math.Floor(c.ComputeStat(config.StatDamage, tower.BaseDamage, completed))
	tower.Range = math.Floor(c.ComputeStat(config.StatRange, tower.BaseRange, completed))
	tower.AttackRate = c.ComputeStat(config.StatSpeed, tower.BaseAttackRate, completed)

	if tower.ProjectileEffect != config.EffectNone && tower.BaseEffectPower != 0 {
		tower.EffectPower = c.ComputeStat(config.StatEffectPower, tower.BaseEffectPower, completed)
	}
	if tower.ProjectileEffect != config.EffectNone && tower.BaseEffectDuration != 0 {
		tower.EffectDuration = c.ComputeStat(config.StatEffectDuration, tower.BaseEffectDuration, completed)
	}
}

// DemolishRefund 拆除返还金额
// = floor(建造费 * 比例) + Σ floor(第 i 次升级费用 * 比例)
func (c *UpgradeCalculator) DemolishRefund(tower *components.TowerComponent) int {
	ratio := c.settings.TowerSettings.DemolishRefundRatio

	refund := int(math.Floor(float64(tower.BaseCost) * ratio))
	for level := 1; level < tower.Level; level++ {
		refund += int(math.Floor(float64(c.UpgradeCostAt(tower.BaseCost, level)) * ratio))
	}
	return refund
}
