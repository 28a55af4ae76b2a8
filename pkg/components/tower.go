package components

import (
	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/ecs"
)

// TowerComponent 防御塔的当前属性
// Base* 字段来自配置，不随升级变化；其余字段由升级公式重新计算
type TowerComponent struct {
	DefID string
	Name  string
	Level int // >= 1

	BaseCost           int
	BaseDamage         float64
	BaseRange          float64
	BaseAttackRate     float64
	BaseEffectPower    float64
	BaseEffectDuration float64

	Damage         float64
	Range          float64
	AttackRate     float64 // 每秒攻击次数
	EffectPower    float64
	EffectDuration float64

	ProjectileType   config.ProjectileType
	ProjectileEffect config.EffectKind
	ProjectileSpeed  float64
	SplashRadius     float64

	// TotalInvested 建造与升级的累计花费（仅用于展示）
	TotalInvested int
}

// CombatComponent 防御塔的攻击节奏状态
type CombatComponent struct {
	// Cooldown 距离下次可攻击的剩余时间（秒）
	Cooldown float64

	// TargetID 本帧选中的目标，0 表示无目标
	// 每帧重新选择，不跨帧持有
	TargetID ecs.EntityID
}
