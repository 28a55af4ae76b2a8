package systems

import (
	"math"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/ecs"
)

// StatusEffectSystem 管理敌人身上的状态效果
//
// 职责：
//   - 添加或刷新效果（同种效果取更长持续时间和更高强度）
//   - 每帧递减持续时间，结算持续伤害（poison / fire）
//   - 根据当前效果重新计算移动速度
//
// 速度规则：眩晕存在时速度为 0；否则减速存在时为 base*(1-power)；否则为 base。
// 眩晕始终压制减速，与两者的施加顺序无关。
type StatusEffectSystem struct {
	entityManager *ecs.EntityManager
}

// NewStatusEffectSystem 创建状态效果系统
func NewStatusEffectSystem(em *ecs.EntityManager) *StatusEffectSystem {
	return &StatusEffectSystem{entityManager: em}
}

// Apply 为敌人添加或刷新状态效果
// 持续时间 <= 0 或未知效果会被忽略
// 混乱效果仅在首次添加时让敌人沿路径后退两段
func (s *StatusEffectSystem) Apply(id ecs.EntityID, kind config.EffectKind, power, duration float64) {
	if kind == config.EffectNone || !kind.Valid() || duration <= 0 {
		return
	}
	effects, ok := ecs.GetComponent[*components.StatusEffectsComponent](s.entityManager, id)
	if !ok {
		return
	}

	if kind == config.EffectSlow {
		power = math.Max(0, math.Min(1, power))
	}

	if existing, found := effects.Effects[kind]; found {
		existing.Remaining = math.Max(existing.Remaining, duration)
		existing.Power = math.Max(existing.Power, power)
	} else {
		effects.Effects[kind] = &components.StatusEffect{
			Kind:      kind,
			Power:     power,
			Remaining: duration,
		}
		effects.Order = append(effects.Order, kind)

		if kind == config.EffectConfusion {
			s.rewindPath(id)
		}
	}

	s.recomputeSpeed(id, effects)
}

// Tick 推进一个敌人的所有状态效果
// 效果存续的每一帧（包括到期那一帧）持续伤害都按 power*dt 结算
func (s *StatusEffectSystem) Tick(id ecs.EntityID, dt float64) {
	effects, ok := ecs.GetComponent[*components.StatusEffectsComponent](s.entityManager, id)
	if !ok || len(effects.Order) == 0 {
		return
	}
	health, hasHealth := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)

	expired := false
	for _, kind := range effects.Order {
		effect := effects.Effects[kind]

		if hasHealth && (kind == config.EffectPoison || kind == config.EffectFire) {
			health.Current -= effect.Power * dt
		}

		effect.Remaining -= dt
		if effect.Remaining <= 0 {
			expired = true
		}
	}

	if !expired {
		return
	}

	kept := effects.Order[:0]
	for _, kind := range effects.Order {
		if effects.Effects[kind].Remaining <= 0 {
			delete(effects.Effects, kind)
			continue
		}
		kept = append(kept, kind)
	}
	effects.Order = kept

	s.recomputeSpeed(id, effects)
}

// Has 检查敌人是否带有指定效果
func (s *StatusEffectSystem) Has(id ecs.EntityID, kind config.EffectKind) bool {
	effects, ok := ecs.GetComponent[*components.StatusEffectsComponent](s.entityManager, id)
	if !ok {
		return false
	}
	_, found := effects.Effects[kind]
	return found
}

func (s *StatusEffectSystem) recomputeSpeed(id ecs.EntityID, effects *components.StatusEffectsComponent) {
	speed, ok := ecs.GetComponent[*components.SpeedComponent](s.entityManager, id)
	if !ok {
		return
	}

	if _, stunned := effects.Effects[config.EffectStun]; stunned {
		speed.Current = 0
		return
	}
	if slow, slowed := effects.Effects[config.EffectSlow]; slowed {
		speed.Current = speed.Base * (1 - slow.Power)
		return
	}
	speed.Current = speed.Base
}

func (s *StatusEffectSystem) rewindPath(id ecs.EntityID) {
	follower, ok := ecs.GetComponent[*components.PathFollowerComponent](s.entityManager, id)
	if !ok {
		return
	}
	follower.SegmentIndex -= 2
	if follower.SegmentIndex < 0 {
		follower.SegmentIndex = 0
	}
}
