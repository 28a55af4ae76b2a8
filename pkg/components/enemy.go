package components

import "github.com/gonewx/tdsim/pkg/config"

// EnemyComponent 敌人的静态属性与终局标记
// 敌人在被移除前只会有一个终局结果：被击败（生命值 <= 0）或到达终点
type EnemyComponent struct {
	DefID          string // 敌人类型ID
	BaseHealth     float64
	BaseSpeed      float64
	Reward         int
	Size           config.EnemySize
	Flying         bool
	IsBoss         bool
	SpecialAbility string

	// WaveNumber 所属波次，用于波次剩余计数
	WaveNumber int

	// ReachedEnd 是否已走完整条路径
	ReachedEnd bool

	// Retired 已结算（奖励或扣命），等待从实体管理器中移除
	Retired bool
}

// HealthComponent 存储敌人的生命值
// 生命值可以降到 0 以下，由调用方在状态效果处理后判断是否被击败
type HealthComponent struct {
	Current float64
	Max     float64
}

// SpeedComponent 移动速度
// Base 来自配置，Current 由状态效果重新计算
type SpeedComponent struct {
	Base    float64
	Current float64
}

// PathFollowerComponent 沿共享路径移动的状态
type PathFollowerComponent struct {
	// Path 所有敌人共享的只读路径
	Path *config.Path

	// SegmentIndex 当前所在线段的起点索引
	SegmentIndex int

	// Progress 路径完成度 [0, 1]
	Progress float64
}
