package components

import "github.com/gonewx/tdsim/pkg/config"

// StatusEffect 单个状态效果
type StatusEffect struct {
	Kind      config.EffectKind
	Power     float64
	Remaining float64 // 剩余持续时间（秒）
}

// StatusEffectsComponent 敌人身上的状态效果集合
// 每种效果最多一个；Order 记录添加顺序，保证遍历顺序稳定
type StatusEffectsComponent struct {
	Effects map[config.EffectKind]*StatusEffect
	Order   []config.EffectKind
}

// NewStatusEffectsComponent 创建空的状态效果集合
func NewStatusEffectsComponent() *StatusEffectsComponent {
	return &StatusEffectsComponent{
		Effects: make(map[config.EffectKind]*StatusEffect),
	}
}
