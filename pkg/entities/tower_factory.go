package entities

import (
	"fmt"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/ecs"
)

// NewTowerEntity 创建 1 级防御塔实体
// 放置合法性与扣费由调用方负责
func NewTowerEntity(em *ecs.EntityManager, def *config.TowerDef, x, y float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if def == nil {
		return 0, fmt.Errorf("tower definition cannot be nil")
	}

	id := em.CreateEntity()

	ecs.AddComponent(em, id, &components.TowerComponent{
		DefID: def.ID,
		Name:  def.Name,
		Level: 1,

		BaseCost:           def.BaseCost,
		BaseDamage:         def.BaseDamage,
		BaseRange:          def.BaseRange,
		BaseAttackRate:     def.BaseSpeed,
		BaseEffectPower:    def.BaseEffectPower,
		BaseEffectDuration: def.BaseEffectDuration,

		Damage:         def.BaseDamage,
		Range:          def.BaseRange,
		AttackRate:     def.BaseSpeed,
		EffectPower:    def.BaseEffectPower,
		EffectDuration: def.BaseEffectDuration,

		ProjectileType:   def.ProjectileType,
		ProjectileEffect: def.ProjectileEffect,
		ProjectileSpeed:  def.ProjectileSpeed,
		SplashRadius:     def.SplashRadius,

		TotalInvested: def.BaseCost,
	})
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.CombatComponent{})

	return id, nil
}
