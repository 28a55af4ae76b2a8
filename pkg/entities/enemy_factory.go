package entities

import (
	"fmt"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/ecs"
)

// NewEnemyEntity 在路径起点创建敌人实体
//
// 参数:
//   - em: 实体管理器
//   - def: 敌人类型配置
//   - path: 地图共享路径（只读）
//   - wave: 所属波次编号
//
// 返回:
//   - ecs.EntityID: 创建的敌人实体ID
//   - error: 参数不合法时返回错误
func NewEnemyEntity(em *ecs.EntityManager, def *config.EnemyDef, path *config.Path, wave int) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if def == nil {
		return 0, fmt.Errorf("enemy definition cannot be nil")
	}
	if path == nil || len(path.Points) == 0 {
		return 0, fmt.Errorf("enemy %s: path cannot be empty", def.ID)
	}

	id := em.CreateEntity()
	start := path.Start()

	ecs.AddComponent(em, id, &components.EnemyComponent{
		DefID:          def.ID,
		BaseHealth:     def.BaseHealth,
		BaseSpeed:      def.BaseSpeed,
		Reward:         def.BaseReward,
		Size:           def.Size,
		Flying:         def.Flying,
		IsBoss:         def.IsBoss,
		SpecialAbility: def.SpecialAbility,
		WaveNumber:     wave,
	})
	ecs.AddComponent(em, id, &components.PositionComponent{X: start.X, Y: start.Y})
	ecs.AddComponent(em, id, &components.HealthComponent{Current: def.BaseHealth, Max: def.BaseHealth})
	ecs.AddComponent(em, id, &components.SpeedComponent{Base: def.BaseSpeed, Current: def.BaseSpeed})
	ecs.AddComponent(em, id, &components.PathFollowerComponent{Path: path})
	ecs.AddComponent(em, id, components.NewStatusEffectsComponent())

	return id, nil
}
