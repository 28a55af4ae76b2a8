package components

import (
	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/ecs"
)

// ProjectileComponent 飞行中的投射物
// 方向在发射时计算，之后沿直线飞行
type ProjectileComponent struct {
	SourceTower ecs.EntityID
	TargetID    ecs.EntityID

	OriginX, OriginY float64
	TargetX, TargetY float64 // 发射时目标所在位置
	DirX, DirY       float64 // 单位方向向量

	Speed     float64
	Traveled  float64
	TravelMax float64 // 起点到目标点的距离

	Type           config.ProjectileType
	Damage         float64
	Effect         config.EffectKind
	EffectPower    float64
	EffectDuration float64
	SplashRadius   float64

	// Active 为 false 表示已结算（命中、过期或飞出战场）
	Active bool
}
