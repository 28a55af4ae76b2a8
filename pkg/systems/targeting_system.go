package systems

import (
	"log"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/ecs"
	"github.com/gonewx/tdsim/pkg/utils"
)

// TargetingSystem 防御塔索敌与攻击节奏
//
// 每帧为每座塔重新选择目标：射程内路径完成度最高的敌人，
// 完成度相同时取遍历顺序（生成顺序）中靠前的一个。
// 冷却 <= 0 且有目标时发射投射物，并把冷却重置为 1/攻速。
type TargetingSystem struct {
	entityManager *ecs.EntityManager
	projectiles   *ProjectileSystem
}

// NewTargetingSystem 创建索敌系统
func NewTargetingSystem(em *ecs.EntityManager, projectiles *ProjectileSystem) *TargetingSystem {
	return &TargetingSystem{
		entityManager: em,
		projectiles:   projectiles,
	}
}

// SelectTarget 选出 (x, y) 处射程为 radius 的塔应攻击的敌人
// 没有可攻击目标时返回 0
func (s *TargetingSystem) SelectTarget(x, y, radius float64) ecs.EntityID {
	var best ecs.EntityID
	bestProgress := -1.0
	radiusSq := radius * radius

	for _, id := range liveEnemies(s.entityManager) {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if utils.DistanceSquared(x, y, pos.X, pos.Y) > radiusSq {
			continue
		}

		progress := 0.0
		if follower, ok := ecs.GetComponent[*components.PathFollowerComponent](s.entityManager, id); ok {
			progress = follower.Progress
		}
		if progress > bestProgress {
			best = id
			bestProgress = progress
		}
	}

	return best
}

// Update 推进所有防御塔的冷却并开火
func (s *TargetingSystem) Update(dt float64) {
	towers := ecs.GetEntitiesWith3[*components.TowerComponent, *components.CombatComponent, *components.PositionComponent](s.entityManager)

	for _, towerID := range towers {
		if !s.entityManager.Exists(towerID) {
			continue
		}
		tower, _ := ecs.GetComponent[*components.TowerComponent](s.entityManager, towerID)
		combat, _ := ecs.GetComponent[*components.CombatComponent](s.entityManager, towerID)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, towerID)

		if combat.Cooldown > 0 {
			combat.Cooldown -= dt
		}

		combat.TargetID = s.SelectTarget(pos.X, pos.Y, tower.Range)
		if combat.TargetID == 0 || combat.Cooldown > 0 || tower.AttackRate <= 0 {
			continue
		}

		if _, err := s.projectiles.Spawn(towerID, combat.TargetID); err != nil {
			log.Printf("[TargetingSystem] Tower %d failed to fire: %v", towerID, err)
			continue
		}
		combat.Cooldown = 1 / tower.AttackRate
	}
}
