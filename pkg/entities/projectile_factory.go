package entities

import (
	"fmt"
	"math"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/ecs"
)

// NewProjectileEntity 创建从防御塔飞向目标当前位置的投射物
// 飞行方向在此处一次性计算，之后不再追踪目标
//
// 参数:
//   - em: 实体管理器
//   - towerID: 发射的防御塔
//   - targetID: 目标敌人（可能在命中前消失）
//   - targetX, targetY: 目标在发射时刻的位置
func NewProjectileEntity(em *ecs.EntityManager, towerID, targetID ecs.EntityID, targetX, targetY float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	tower, ok := ecs.GetComponent[*components.TowerComponent](em, towerID)
	if !ok {
		return 0, fmt.Errorf("entity %d is not a tower", towerID)
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](em, towerID)
	if !ok {
		return 0, fmt.Errorf("tower %d has no position", towerID)
	}

	dx := targetX - pos.X
	dy := targetY - pos.Y
	distance := math.Sqrt(dx*dx + dy*dy)

	// 目标与塔重合时方向为零向量，第一次推进即到达目标点
	dirX, dirY := 0.0, 0.0
	if distance > 0 {
		dirX = dx / distance
		dirY = dy / distance
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.ProjectileComponent{
		SourceTower:    towerID,
		TargetID:       targetID,
		OriginX:        pos.X,
		OriginY:        pos.Y,
		TargetX:        targetX,
		TargetY:        targetY,
		DirX:           dirX,
		DirY:           dirY,
		Speed:          tower.ProjectileSpeed,
		TravelMax:      distance,
		Type:           tower.ProjectileType,
		Damage:         tower.Damage,
		Effect:         tower.ProjectileEffect,
		EffectPower:    tower.EffectPower,
		EffectDuration: tower.EffectDuration,
		SplashRadius:   tower.SplashRadius,
		Active:         true,
	})
	ecs.AddComponent(em, id, &components.PositionComponent{X: pos.X, Y: pos.Y})

	return id, nil
}
