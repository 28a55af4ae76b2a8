package systems

import (
	"fmt"
	"log"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/ecs"
	"github.com/gonewx/tdsim/pkg/entities"
	"github.com/gonewx/tdsim/pkg/event"
	"github.com/gonewx/tdsim/pkg/game"
)

// EnemyLifecycleSystem 负责敌人的生成与结算
//
// 结算时每个敌人只会有一个结果：
//   - 生命值 <= 0：被击败，发放奖励
//   - 到达终点：扣除一条生命，不发放奖励
//
// 结算后的敌人标记删除，并通知波次调度器减少剩余计数。
type EnemyLifecycleSystem struct {
	entityManager *ecs.EntityManager
	catalog       *config.EnemyCatalog
	path          *config.Path
	economy       *game.Economy
	waves         *WaveScheduler
	bus           *event.Bus
}

// NewEnemyLifecycleSystem 创建敌人生命周期系统
func NewEnemyLifecycleSystem(
	em *ecs.EntityManager,
	catalog *config.EnemyCatalog,
	path *config.Path,
	economy *game.Economy,
	waves *WaveScheduler,
	bus *event.Bus,
) *EnemyLifecycleSystem {
	return &EnemyLifecycleSystem{
		entityManager: em,
		catalog:       catalog,
		path:          path,
		economy:       economy,
		waves:         waves,
		bus:           bus,
	}
}

// Spawn 在路径起点生成敌人
// 未知类型会被跳过（记录日志），并计入本波已结算数量，保证波次仍能完成
func (s *EnemyLifecycleSystem) Spawn(enemyType string, wave int) (ecs.EntityID, error) {
	def, ok := s.catalog.Get(enemyType)
	if !ok {
		log.Printf("[EnemyLifecycle] Skipping spawn of unknown enemy type %q in wave %d", enemyType, wave)
		s.waves.EnemyRetired(wave)
		return 0, fmt.Errorf("enemy type %q: %w", enemyType, game.ErrConfigNotFound)
	}

	id, err := entities.NewEnemyEntity(s.entityManager, def, s.path, wave)
	if err != nil {
		s.waves.EnemyRetired(wave)
		return 0, fmt.Errorf("failed to spawn %s: %w", enemyType, err)
	}

	s.bus.Publish(event.Event{Type: event.EnemySpawned, EntityID: uint64(id), DefID: enemyType, Wave: wave})
	return id, nil
}

// Retire 结算所有已被击败或到达终点的敌人
//
// 返回：
//   - defeated: 本次结算的击败数量
//   - leaked: 本次结算的漏怪数量
func (s *EnemyLifecycleSystem) Retire() (defeated, leaked int) {
	enemies := ecs.GetEntitiesWith2[*components.EnemyComponent, *components.HealthComponent](s.entityManager)

	for _, id := range enemies {
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](s.entityManager, id)
		if enemy.Retired {
			continue
		}
		health, _ := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)

		switch {
		case health.Current <= 0:
			enemy.Retired = true
			s.economy.EnemyDefeated(enemy.Reward)
			s.bus.Publish(event.Event{Type: event.EnemyDefeated, EntityID: uint64(id), DefID: enemy.DefID, Wave: enemy.WaveNumber, Amount: enemy.Reward})
			defeated++

		case enemy.ReachedEnd:
			enemy.Retired = true
			s.economy.EnemyReachedEnd()
			s.bus.Publish(event.Event{Type: event.EnemyReachedEnd, EntityID: uint64(id), DefID: enemy.DefID, Wave: enemy.WaveNumber})
			leaked++

		default:
			continue
		}

		s.waves.EnemyRetired(enemy.WaveNumber)
		s.entityManager.DestroyEntity(id)
	}

	return defeated, leaked
}

// AliveCount 场上尚未结算的敌人数量
func (s *EnemyLifecycleSystem) AliveCount() int {
	count := 0
	for _, id := range ecs.GetEntitiesWith1[*components.EnemyComponent](s.entityManager) {
		if enemy, _ := ecs.GetComponent[*components.EnemyComponent](s.entityManager, id); !enemy.Retired {
			count++
		}
	}
	return count
}
