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
	"github.com/gonewx/tdsim/pkg/utils"
)

// TowerSystem 处理防御塔的建造、升级和拆除命令
//
// 放置规则：
//   - 位置在战场内，且落在某个可建造区域内（边界包含在内）
//   - 与其他防御塔的距离不小于 PlacementSpacing
//   - 与路径任意线段的距离不小于 PathClearance
//
// 所有校验在扣费之前完成，非法命令不会改变金钱。
type TowerSystem struct {
	entityManager *ecs.EntityManager
	catalog       *config.TowerCatalog
	battlefield   *config.MapConfig
	settings      config.TowerSettings
	economy       *game.Economy
	upgrades      *UpgradeCalculator
	bus           *event.Bus
}

// NewTowerSystem 创建防御塔管理系统
func NewTowerSystem(
	em *ecs.EntityManager,
	catalog *config.TowerCatalog,
	battlefield *config.MapConfig,
	settings config.TowerSettings,
	economy *game.Economy,
	upgrades *UpgradeCalculator,
	bus *event.Bus,
) *TowerSystem {
	return &TowerSystem{
		entityManager: em,
		catalog:       catalog,
		battlefield:   battlefield,
		settings:      settings,
		economy:       economy,
		upgrades:      upgrades,
		bus:           bus,
	}
}

// ValidatePlacement 检查 (x, y) 是否可以建造防御塔
// 不合法时返回包装了 game.ErrInvalidPlacement 的错误
func (s *TowerSystem) ValidatePlacement(x, y float64) error {
	if !s.battlefield.InBounds(x, y) {
		return fmt.Errorf("(%.0f, %.0f) is outside the battlefield: %w", x, y, game.ErrInvalidPlacement)
	}

	inBuildable := false
	for _, area := range s.battlefield.BuildableAreas {
		if area.Contains(x, y) {
			inBuildable = true
			break
		}
	}
	if !inBuildable {
		return fmt.Errorf("(%.0f, %.0f) is not in a buildable area: %w", x, y, game.ErrInvalidPlacement)
	}

	for _, id := range ecs.GetEntitiesWith2[*components.TowerComponent, *components.PositionComponent](s.entityManager) {
		if !s.entityManager.Exists(id) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if utils.Distance(x, y, pos.X, pos.Y) < s.settings.PlacementSpacing {
			return fmt.Errorf("(%.0f, %.0f) is too close to tower %d: %w", x, y, id, game.ErrInvalidPlacement)
		}
	}

	points := s.battlefield.Path().Points
	for i := 0; i+1 < len(points); i++ {
		if utils.DistanceToSegment(x, y, points[i], points[i+1]) < s.settings.PathClearance {
			return fmt.Errorf("(%.0f, %.0f) is too close to the path: %w", x, y, game.ErrInvalidPlacement)
		}
	}

	return nil
}

// Place 建造防御塔
//
// 返回：
//   - ecs.EntityID: 新防御塔ID
//   - error: game.ErrConfigNotFound / game.ErrInvalidPlacement / game.ErrInsufficientFunds
func (s *TowerSystem) Place(typeID string, x, y float64) (ecs.EntityID, error) {
	def, ok := s.catalog.Get(typeID)
	if !ok {
		return 0, fmt.Errorf("tower type %q: %w", typeID, game.ErrConfigNotFound)
	}
	if err := s.ValidatePlacement(x, y); err != nil {
		return 0, err
	}
	if !s.economy.CanAfford(def.BaseCost) {
		return 0, fmt.Errorf("place %s: need %d, have %d: %w", typeID, def.BaseCost, s.economy.Money(), game.ErrInsufficientFunds)
	}

	id, err := entities.NewTowerEntity(s.entityManager, def, x, y)
	if err != nil {
		return 0, fmt.Errorf("failed to create tower %s: %w", typeID, err)
	}
	if err := s.economy.Spend(def.BaseCost); err != nil {
		s.entityManager.DestroyEntity(id)
		return 0, fmt.Errorf("place %s: %w", typeID, err)
	}

	log.Printf("[TowerSystem] Placed %s (id=%d) at (%.0f, %.0f) for %d", typeID, id, x, y, def.BaseCost)
	s.bus.Publish(event.Event{Type: event.TowerPlaced, EntityID: uint64(id), DefID: typeID, Amount: def.BaseCost, Wave: s.economy.Wave()})
	return id, nil
}

// UpgradeQuote 返回防御塔下一次升级的费用
func (s *TowerSystem) UpgradeQuote(id ecs.EntityID) (int, error) {
	tower, err := s.tower(id)
	if err != nil {
		return 0, err
	}
	return s.upgrades.UpgradeCost(tower), nil
}

// Upgrade 升级防御塔，扣除与报价相同的费用
func (s *TowerSystem) Upgrade(id ecs.EntityID) (int, error) {
	tower, err := s.tower(id)
	if err != nil {
		return 0, err
	}

	cost := s.upgrades.UpgradeCost(tower)
	if err := s.economy.Spend(cost); err != nil {
		return 0, fmt.Errorf("upgrade tower %d: %w", id, err)
	}

	s.upgrades.Apply(tower)
	tower.TotalInvested += cost

	log.Printf("[TowerSystem] Upgraded %s (id=%d) to level %d for %d", tower.DefID, id, tower.Level, cost)
	s.bus.Publish(event.Event{Type: event.TowerUpgraded, EntityID: uint64(id), DefID: tower.DefID, Amount: cost, Wave: s.economy.Wave()})
	return cost, nil
}

// Demolish 拆除防御塔并返还部分投入
func (s *TowerSystem) Demolish(id ecs.EntityID) (int, error) {
	tower, err := s.tower(id)
	if err != nil {
		return 0, err
	}

	refund := s.upgrades.DemolishRefund(tower)
	s.economy.Earn(refund)
	s.entityManager.DestroyEntity(id)

	log.Printf("[TowerSystem] Demolished %s (id=%d), refunded %d", tower.DefID, id, refund)
	s.bus.Publish(event.Event{Type: event.TowerDemolished, EntityID: uint64(id), DefID: tower.DefID, Amount: refund, Wave: s.economy.Wave()})
	return refund, nil
}

// TowerAt 返回距离 (x, y) 最近且在 radius 内的防御塔
func (s *TowerSystem) TowerAt(x, y, radius float64) (ecs.EntityID, bool) {
	var found ecs.EntityID
	best := radius * radius
	for _, id := range ecs.GetEntitiesWith2[*components.TowerComponent, *components.PositionComponent](s.entityManager) {
		if !s.entityManager.Exists(id) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if d := utils.DistanceSquared(x, y, pos.X, pos.Y); d <= best {
			found = id
			best = d
		}
	}
	return found, found != 0
}

func (s *TowerSystem) tower(id ecs.EntityID) (*components.TowerComponent, error) {
	if s.entityManager.IsMarkedForDestroy(id) {
		return nil, fmt.Errorf("tower %d already demolished: %w", id, game.ErrTowerNotFound)
	}
	if !s.entityManager.Exists(id) {
		return nil, fmt.Errorf("tower %d: %w", id, game.ErrTowerNotFound)
	}
	tower, ok := ecs.GetComponent[*components.TowerComponent](s.entityManager, id)
	if !ok {
		return nil, fmt.Errorf("entity %d: %w", id, game.ErrTowerNotFound)
	}
	return tower, nil
}
