package systems

import (
	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/ecs"
)

// isLiveEnemy 判断实体是否为仍在场上的敌人
// 已到达终点、已结算或生命值 <= 0 的敌人都不再参与索敌和伤害结算
func isLiveEnemy(em *ecs.EntityManager, id ecs.EntityID) bool {
	if !em.Exists(id) {
		return false
	}
	enemy, ok := ecs.GetComponent[*components.EnemyComponent](em, id)
	if !ok || enemy.ReachedEnd || enemy.Retired {
		return false
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](em, id)
	return ok && health.Current > 0
}

// liveEnemies 按创建顺序返回所有场上敌人
func liveEnemies(em *ecs.EntityManager) []ecs.EntityID {
	all := ecs.GetEntitiesWith3[*components.EnemyComponent, *components.PositionComponent, *components.HealthComponent](em)
	live := all[:0]
	for _, id := range all {
		if isLiveEnemy(em, id) {
			live = append(live, id)
		}
	}
	return live
}
