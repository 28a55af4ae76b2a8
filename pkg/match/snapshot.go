package match

import (
	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/ecs"
	"github.com/gonewx/tdsim/pkg/game"
	"github.com/gonewx/tdsim/pkg/systems"
	"github.com/google/uuid"
)

// EnemyView 敌人的只读视图
type EnemyView struct {
	ID        ecs.EntityID
	Type      string
	X, Y      float64
	Health    float64
	MaxHealth float64
	Speed     float64
	Progress  float64
	Wave      int
	IsBoss    bool
	Flying    bool
	Stunned   bool
	Effects   []config.EffectKind
}

// TowerView 防御塔的只读视图
type TowerView struct {
	ID          ecs.EntityID
	Type        string
	Name        string
	X, Y        float64
	Level       int
	Damage      float64
	Range       float64
	AttackRate  float64
	TargetID    ecs.EntityID
	UpgradeCost int
	Invested    int
}

// ProjectileView 投射物的只读视图
type ProjectileView struct {
	ID     ecs.EntityID
	X, Y   float64
	Type   config.ProjectileType
	Effect config.EffectKind
}

// PlayerState 玩家状态
type PlayerState struct {
	Money   int
	Lives   int
	Outcome game.Outcome
}

// WaveState 波次状态
type WaveState struct {
	Number               int
	MaxWaves             int
	Phase                systems.WavePhase
	PreparationRemaining float64
	Remaining            int
	Alive                int
	IsBossWave           bool
}

// Snapshot 对局某一时刻的只读副本，修改它不会影响对局
type Snapshot struct {
	MatchID uuid.UUID
	Ticks   int64
	Elapsed float64
	Paused  bool

	Player PlayerState
	Wave   WaveState

	Defeated int
	Leaked   int

	Enemies     []EnemyView
	Towers      []TowerView
	Projectiles []ProjectileView
}

// Snapshot 生成当前状态的只读副本
// 实体按创建顺序排列
func (m *Match) Snapshot() Snapshot {
	snap := Snapshot{
		MatchID: m.id,
		Ticks:   m.ticks,
		Elapsed: m.elapsed,
		Paused:  m.paused,
		Player: PlayerState{
			Money:   m.economy.Money(),
			Lives:   m.economy.Lives(),
			Outcome: m.economy.Outcome(),
		},
		Wave: WaveState{
			Number:               m.waves.WaveNumber(),
			MaxWaves:             m.settings.GameSettings.MaxWaves,
			Phase:                m.waves.Phase(),
			PreparationRemaining: m.waves.PreparationRemaining(),
			Remaining:            m.waves.Remaining(),
			Alive:                m.enemies.AliveCount(),
			IsBossWave:           m.waves.Current().IsBossWave,
		},
		Defeated: m.defeated,
		Leaked:   m.leaked,
	}

	em := m.entityManager
	for _, id := range ecs.GetEntitiesWith3[*components.EnemyComponent, *components.PositionComponent, *components.HealthComponent](em) {
		if !em.Exists(id) {
			continue
		}
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		health, _ := ecs.GetComponent[*components.HealthComponent](em, id)

		view := EnemyView{
			ID:        id,
			Type:      enemy.DefID,
			X:         pos.X,
			Y:         pos.Y,
			Health:    health.Current,
			MaxHealth: health.Max,
			Wave:      enemy.WaveNumber,
			IsBoss:    enemy.IsBoss,
			Flying:    enemy.Flying,
			Stunned:   m.statusEffects.Has(id, config.EffectStun),
		}
		if speed, ok := ecs.GetComponent[*components.SpeedComponent](em, id); ok {
			view.Speed = speed.Current
		}
		if follower, ok := ecs.GetComponent[*components.PathFollowerComponent](em, id); ok {
			view.Progress = follower.Progress
		}
		if effects, ok := ecs.GetComponent[*components.StatusEffectsComponent](em, id); ok && len(effects.Order) > 0 {
			view.Effects = append([]config.EffectKind(nil), effects.Order...)
		}
		snap.Enemies = append(snap.Enemies, view)
	}

	for _, id := range ecs.GetEntitiesWith3[*components.TowerComponent, *components.CombatComponent, *components.PositionComponent](em) {
		if !em.Exists(id) {
			continue
		}
		tower, _ := ecs.GetComponent[*components.TowerComponent](em, id)
		combat, _ := ecs.GetComponent[*components.CombatComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)

		snap.Towers = append(snap.Towers, TowerView{
			ID:          id,
			Type:        tower.DefID,
			Name:        tower.Name,
			X:           pos.X,
			Y:           pos.Y,
			Level:       tower.Level,
			Damage:      tower.Damage,
			Range:       tower.Range,
			AttackRate:  tower.AttackRate,
			TargetID:    combat.TargetID,
			UpgradeCost: m.upgrades.UpgradeCost(tower),
			Invested:    tower.TotalInvested,
		})
	}

	for _, id := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](em) {
		p, _ := ecs.GetComponent[*components.ProjectileComponent](em, id)
		if !p.Active {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		snap.Projectiles = append(snap.Projectiles, ProjectileView{
			ID:     id,
			X:      pos.X,
			Y:      pos.Y,
			Type:   p.Type,
			Effect: p.Effect,
		})
	}

	return snap
}
