package systems

import (
	"fmt"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/ecs"
	"github.com/gonewx/tdsim/pkg/entities"
	"github.com/gonewx/tdsim/pkg/event"
	"github.com/gonewx/tdsim/pkg/utils"
)

// ProjectileSystem 推进投射物并结算命中
//
// 结算规则：
//   - 单体：与存活目标距离小于命中半径时命中；目标已消失时飞到原目标点后无害消失
//   - 范围：到达目标点时对溅射半径内（含边界）的所有存活敌人造成伤害
//   - 先结算伤害，再施加效果；效果需要种类、强度、持续时间都有效
//   - 飞出战场的投射物直接丢弃
//
// 每个投射物只结算一次，结算后当帧标记删除。
type ProjectileSystem struct {
	entityManager *ecs.EntityManager
	statusEffects *StatusEffectSystem
	battlefield   *config.MapConfig
	hitRadius     float64
	bus           *event.Bus
}

// NewProjectileSystem 创建投射物系统
//
// 参数：
//   - em: 实体管理器，同时作为范围伤害查询的敌人注册表
//   - statusEffects: 命中后施加效果
//   - battlefield: 提供战场边界
//   - hitRadius: 单体投射物命中半径
//   - bus: 事件总线，可为 nil
func NewProjectileSystem(em *ecs.EntityManager, statusEffects *StatusEffectSystem, battlefield *config.MapConfig, hitRadius float64, bus *event.Bus) *ProjectileSystem {
	return &ProjectileSystem{
		entityManager: em,
		statusEffects: statusEffects,
		battlefield:   battlefield,
		hitRadius:     hitRadius,
		bus:           bus,
	}
}

// Spawn 从防御塔向目标当前位置发射投射物
func (s *ProjectileSystem) Spawn(towerID, targetID ecs.EntityID) (ecs.EntityID, error) {
	targetPos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, targetID)
	if !ok {
		return 0, fmt.Errorf("target %d has no position", targetID)
	}

	id, err := entities.NewProjectileEntity(s.entityManager, towerID, targetID, targetPos.X, targetPos.Y)
	if err != nil {
		return 0, err
	}

	if tower, ok := ecs.GetComponent[*components.TowerComponent](s.entityManager, towerID); ok {
		s.bus.Publish(event.Event{Type: event.ProjectileFired, EntityID: uint64(towerID), DefID: tower.DefID})
	}
	return id, nil
}

// Update 推进所有未结算的投射物
func (s *ProjectileSystem) Update(dt float64) {
	projectiles := ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](s.entityManager)

	for _, id := range projectiles {
		p, _ := ecs.GetComponent[*components.ProjectileComponent](s.entityManager, id)
		if !p.Active {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		s.advance(id, p, pos, dt)
	}
}

// ActiveCount 返回尚未结算的投射物数量
func (s *ProjectileSystem) ActiveCount() int {
	count := 0
	for _, id := range ecs.GetEntitiesWith1[*components.ProjectileComponent](s.entityManager) {
		if p, _ := ecs.GetComponent[*components.ProjectileComponent](s.entityManager, id); p.Active {
			count++
		}
	}
	return count
}

func (s *ProjectileSystem) advance(id ecs.EntityID, p *components.ProjectileComponent, pos *components.PositionComponent, dt float64) {
	step := p.Speed * dt
	remaining := p.TravelMax - p.Traveled

	if p.Type == config.ProjectileArea {
		if step >= remaining {
			pos.X, pos.Y = p.TargetX, p.TargetY
			p.Traveled = p.TravelMax
			s.splash(p)
			s.resolve(id, p)
			return
		}
		s.move(p, pos, step)
		s.discardIfOutOfBounds(id, p, pos)
		return
	}

	if !isLiveEnemy(s.entityManager, p.TargetID) {
		// 目标已消失：飞到原目标点后消失，不造成伤害
		if step >= remaining || (p.DirX == 0 && p.DirY == 0) {
			pos.X, pos.Y = p.TargetX, p.TargetY
			p.Traveled = p.TravelMax
			s.resolve(id, p)
			return
		}
		s.move(p, pos, step)
		s.discardIfOutOfBounds(id, p, pos)
		return
	}

	fromX, fromY := pos.X, pos.Y
	s.move(p, pos, step)

	// 用本帧飞行线段与目标的最近距离判定，避免高速投射物穿过目标
	target, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, p.TargetID)
	closest := utils.DistanceToSegment(target.X, target.Y,
		utils.Point{X: fromX, Y: fromY}, utils.Point{X: pos.X, Y: pos.Y})
	if closest < s.hitRadius {
		s.hit(p.TargetID, p)
		s.resolve(id, p)
		return
	}

	// 零方向的投射物永远不会移动，直接作废
	if p.DirX == 0 && p.DirY == 0 {
		s.resolve(id, p)
		return
	}

	s.discardIfOutOfBounds(id, p, pos)
}

func (s *ProjectileSystem) move(p *components.ProjectileComponent, pos *components.PositionComponent, step float64) {
	pos.X += p.DirX * step
	pos.Y += p.DirY * step
	p.Traveled += step
}

func (s *ProjectileSystem) discardIfOutOfBounds(id ecs.EntityID, p *components.ProjectileComponent, pos *components.PositionComponent) {
	if s.battlefield != nil && !s.battlefield.InBounds(pos.X, pos.Y) {
		s.resolve(id, p)
	}
}

// splash 对目标点周围的存活敌人造成范围伤害
func (s *ProjectileSystem) splash(p *components.ProjectileComponent) {
	radiusSq := p.SplashRadius * p.SplashRadius
	for _, enemyID := range liveEnemies(s.entityManager) {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, enemyID)
		if utils.DistanceSquared(p.TargetX, p.TargetY, pos.X, pos.Y) <= radiusSq {
			s.hit(enemyID, p)
		}
	}
}

// hit 先扣血，再施加效果
func (s *ProjectileSystem) hit(enemyID ecs.EntityID, p *components.ProjectileComponent) {
	if health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, enemyID); ok {
		health.Current -= p.Damage
	}
	if p.Effect != config.EffectNone && p.EffectPower > 0 && p.EffectDuration > 0 {
		s.statusEffects.Apply(enemyID, p.Effect, p.EffectPower, p.EffectDuration)
	}
}

func (s *ProjectileSystem) resolve(id ecs.EntityID, p *components.ProjectileComponent) {
	p.Active = false
	s.entityManager.DestroyEntity(id)
}
