// Package match 组装一场完整的塔防对局
//
// Match 持有对局的全部可变状态（实体、经济、波次、随机数），
// 按固定顺序推进各系统，对外只暴露命令和只读快照。
package match

import (
	"fmt"
	"log"
	"time"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/ecs"
	"github.com/gonewx/tdsim/pkg/event"
	"github.com/gonewx/tdsim/pkg/game"
	"github.com/gonewx/tdsim/pkg/systems"
	"github.com/gonewx/tdsim/pkg/utils"
	"github.com/google/uuid"
)

// Options 对局创建参数
type Options struct {
	// MapID 地图ID，为空时使用字母序第一张地图
	MapID string
	// Seed 随机种子，为 0 时使用当前时间
	Seed int64
	// Verbose 输出每次敌人生成的日志
	Verbose bool
}

// Match 单场对局
type Match struct {
	id          uuid.UUID
	battlefield *config.MapConfig
	settings    *config.GameSettingsConfig

	entityManager *ecs.EntityManager
	bus           *event.Bus
	economy       *game.Economy
	rng           *utils.PRNGService

	statusEffects *systems.StatusEffectSystem
	motion        *systems.PathMotionSystem
	projectiles   *systems.ProjectileSystem
	targeting     *systems.TargetingSystem
	upgrades      *systems.UpgradeCalculator
	towers        *systems.TowerSystem
	waves         *systems.WaveScheduler
	enemies       *systems.EnemyLifecycleSystem

	paused      bool
	accumulator float64
	elapsed     float64
	ticks       int64

	defeated int
	leaked   int
}

// New 根据配置创建对局
//
// 参数：
//   - cfg: 已校验的对局配置
//   - opts: 地图、随机种子等选项
//
// 返回：
//   - *Match: 处于第一波准备倒计时中的对局
//   - error: 地图不存在时返回包装了 game.ErrConfigNotFound 的错误
func New(cfg *config.MatchConfig, opts Options) (*Match, error) {
	if cfg == nil {
		return nil, fmt.Errorf("match config cannot be nil")
	}

	mapID := opts.MapID
	if mapID == "" {
		ids := cfg.MapIDs()
		if len(ids) == 0 {
			return nil, fmt.Errorf("no maps configured: %w", game.ErrConfigNotFound)
		}
		mapID = ids[0]
	}
	battlefield, ok := cfg.Map(mapID)
	if !ok {
		return nil, fmt.Errorf("map %q: %w", mapID, game.ErrConfigNotFound)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m := &Match{
		id:            uuid.New(),
		battlefield:   battlefield,
		settings:      cfg.Settings,
		entityManager: ecs.NewEntityManager(),
		rng:           utils.NewPRNGService(seed),
	}
	m.bus = event.NewBus(m.id)
	m.economy = game.NewEconomy(battlefield.StartingMoney, battlefield.Lives, m.bus)

	s := cfg.Settings
	m.statusEffects = systems.NewStatusEffectSystem(m.entityManager)
	m.motion = systems.NewPathMotionSystem(m.entityManager, s.PathSettings.WaypointSnapDistance)
	m.projectiles = systems.NewProjectileSystem(m.entityManager, m.statusEffects, battlefield, s.ProjectileSettings.HitRadius, m.bus)
	m.targeting = systems.NewTargetingSystem(m.entityManager, m.projectiles)
	m.upgrades = systems.NewUpgradeCalculator(s)
	m.towers = systems.NewTowerSystem(m.entityManager, cfg.Towers, battlefield, s.TowerSettings, m.economy, m.upgrades, m.bus)
	m.waves = systems.NewWaveScheduler(s.GameSettings, m.rng, m.economy, m.bus)
	m.waves.SetVerbose(opts.Verbose)
	m.enemies = systems.NewEnemyLifecycleSystem(m.entityManager, cfg.Enemies, battlefield.Path(), m.economy, m.waves, m.bus)

	log.Printf("[Match] %s created on map %s (seed=%d, money=%d, lives=%d)",
		m.id, battlefield.ID, seed, battlefield.StartingMoney, battlefield.Lives)
	return m, nil
}

// ID 对局唯一标识
func (m *Match) ID() uuid.UUID { return m.id }

// Bus 对局事件总线，表现层通过它订阅事件
func (m *Match) Bus() *event.Bus { return m.bus }

// Map 对局使用的地图
func (m *Match) Map() *config.MapConfig { return m.battlefield }

// Outcome 当前对局结果
func (m *Match) Outcome() game.Outcome { return m.economy.Outcome() }

// IsOver 对局是否已结束（胜利或失败）
func (m *Match) IsOver() bool { return m.economy.IsOver() }

// FinalWave 已到达的最高波次，用于记录成绩
func (m *Match) FinalWave() int { return m.economy.Wave() }

// Paused 是否处于暂停状态
func (m *Match) Paused() bool { return m.paused }

// SetPaused 暂停或恢复模拟；暂停期间 Tick 不做任何事
func (m *Match) SetPaused(paused bool) {
	if m.paused == paused {
		return
	}
	m.paused = paused
	log.Printf("[Match] Paused=%v", paused)
}

// Update 按帧时间推进模拟
// 以 1/tickRate 为固定步长执行若干次 Tick，单次调用最多 maxTicksPerUpdate 步，
// 超出部分被丢弃，避免长时间卡顿后追帧。返回本次执行的步数。
func (m *Match) Update(frameDelta float64) int {
	if m.paused || m.IsOver() || frameDelta <= 0 {
		return 0
	}

	gs := m.settings.GameSettings
	step := 1 / float64(gs.TickRate)
	m.accumulator += frameDelta

	ticks := 0
	for m.accumulator >= step && ticks < gs.MaxTicksPerUpdate && !m.IsOver() {
		m.Tick(step)
		m.accumulator -= step
		ticks++
	}
	if m.accumulator >= step {
		m.accumulator = 0
	}
	return ticks
}

// Tick 推进一个模拟步
//
// 顺序：
//  1. 准备倒计时与到期的敌人生成
//  2. 状态效果，然后移动（生命值 <= 0 的敌人不移动）
//  3. 结算被击败或到达终点的敌人
//  4. 防御塔冷却、索敌与开火
//  5. 投射物飞行与命中
//  6. 结算本步被击杀的敌人、检查波次完成、清理删除的实体
func (m *Match) Tick(dt float64) {
	if m.paused || m.IsOver() || dt <= 0 {
		return
	}

	for _, entry := range m.waves.Update(dt) {
		// 未知类型已在 Spawn 中记录并计入结算
		_, _ = m.enemies.Spawn(entry.EnemyType, m.waves.WaveNumber())
	}

	for _, id := range ecs.GetEntitiesWith2[*components.EnemyComponent, *components.HealthComponent](m.entityManager) {
		if !m.entityManager.Exists(id) {
			continue
		}
		m.statusEffects.Tick(id, dt)
		if health, _ := ecs.GetComponent[*components.HealthComponent](m.entityManager, id); health.Current <= 0 {
			continue
		}
		m.motion.Advance(id, dt)
	}

	m.retireEnemies()

	m.targeting.Update(dt)
	m.projectiles.Update(dt)

	m.retireEnemies()
	m.waves.CheckCompletion()
	if m.IsOver() {
		m.waves.Stop()
		log.Printf("[Match] %s finished: %s at wave %d (defeated=%d, leaked=%d, projectiles=%d, entities=%d)",
			m.id, m.Outcome(), m.FinalWave(), m.defeated, m.leaked, m.projectiles.ActiveCount(), m.entityManager.EntityCount())
	}

	m.entityManager.RemoveMarkedEntities()
	m.elapsed += dt
	m.ticks++
}

func (m *Match) retireEnemies() {
	defeated, leaked := m.enemies.Retire()
	m.defeated += defeated
	m.leaked += leaked
}

// PlaceTower 在 (x, y) 建造指定类型的防御塔
func (m *Match) PlaceTower(typeID string, x, y float64) (ecs.EntityID, error) {
	if m.IsOver() {
		return 0, game.ErrMatchOver
	}
	return m.towers.Place(typeID, x, y)
}

// UpgradeQuote 查询防御塔下一次升级的费用
func (m *Match) UpgradeQuote(id ecs.EntityID) (int, error) {
	return m.towers.UpgradeQuote(id)
}

// UpgradeTower 升级防御塔，返回实际花费
func (m *Match) UpgradeTower(id ecs.EntityID) (int, error) {
	if m.IsOver() {
		return 0, game.ErrMatchOver
	}
	return m.towers.Upgrade(id)
}

// DemolishTower 拆除防御塔，返回返还金额
func (m *Match) DemolishTower(id ecs.EntityID) (int, error) {
	if m.IsOver() {
		return 0, game.ErrMatchOver
	}
	return m.towers.Demolish(id)
}

// TowerAt 查找 (x, y) 附近 radius 内最近的防御塔
func (m *Match) TowerAt(x, y, radius float64) (ecs.EntityID, bool) {
	return m.towers.TowerAt(x, y, radius)
}

// StartWave 跳过准备倒计时立即开始下一波
func (m *Match) StartWave() error {
	if m.IsOver() {
		return game.ErrMatchOver
	}
	return m.waves.StartWave()
}
