package systems

import (
	"testing"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/ecs"
	"github.com/gonewx/tdsim/pkg/entities"
	"github.com/gonewx/tdsim/pkg/utils"
)

const testSettingsYAML = `
gameSettings:
  maxWaves: 2
  preparationTime: 5
  enemyTiers:
    - { type: fast, minWave: 3 }
    - { type: armored, minWave: 5 }
towerSettings:
  upgradeFormulas:
    damage: { formula: "baseDamage * (1 + 0.5 * level)" }
    range: { formula: "baseRange + 10.7 * level" }
    speed: { formula: "baseSpeed * (1 + 0.25 * level)" }
    effectPower: { formula: "baseEffectPower + 0.05 * level" }
    effectDuration: { formula: "baseEffectDuration + 0.5 * level" }
    cost: { formula: "baseCost * (0.5 + 0.75 * level)" }
`

const testMapYAML = `
id: test
name: Test Field
width: 800
height: 600
startingMoney: 500
lives: 3
path:
  - { x: 0, y: 100 }
  - { x: 400, y: 100 }
  - { x: 400, y: 500 }
buildableAreas:
  - { x: 0, y: 120, width: 390, height: 330 }
`

const testEnemiesYAML = `
enemies:
  - { id: basic, baseHealth: 100, baseSpeed: 60, baseReward: 10 }
  - { id: fast, baseHealth: 60, baseSpeed: 110, baseReward: 12 }
  - { id: armored, baseHealth: 260, baseSpeed: 40, baseReward: 20 }
`

const testTowersYAML = `
towers:
  - id: arrow
    baseCost: 50
    baseDamage: 20
    baseRange: 150
    baseSpeed: 2
    projectileSpeed: 400
  - id: frost
    baseCost: 100
    baseDamage: 20
    baseRange: 100
    baseSpeed: 1
    projectileEffect: slow
    projectileSpeed: 400
    baseEffectPower: 0.4
    baseEffectDuration: 2
  - id: cannon
    baseCost: 120
    baseDamage: 40
    baseRange: 300
    baseSpeed: 1
    projectileType: area
    projectileSpeed: 250
    splashRadius: 50
`

func newTestSettings(t *testing.T) *config.GameSettingsConfig {
	t.Helper()
	settings, err := config.ParseGameSettings([]byte(testSettingsYAML))
	if err != nil {
		t.Fatalf("failed to parse test settings: %v", err)
	}
	return settings
}

func newTestMap(t *testing.T) *config.MapConfig {
	t.Helper()
	m, err := config.ParseMapConfig([]byte(testMapYAML))
	if err != nil {
		t.Fatalf("failed to parse test map: %v", err)
	}
	return m
}

func newTestEnemyCatalog(t *testing.T) *config.EnemyCatalog {
	t.Helper()
	c, err := config.ParseEnemyCatalog([]byte(testEnemiesYAML))
	if err != nil {
		t.Fatalf("failed to parse test enemies: %v", err)
	}
	return c
}

func newTestTowerCatalog(t *testing.T) *config.TowerCatalog {
	t.Helper()
	c, err := config.ParseTowerCatalog([]byte(testTowersYAML))
	if err != nil {
		t.Fatalf("failed to parse test towers: %v", err)
	}
	return c
}

// spawnEnemyAt 创建一个敌人并放到指定位置
func spawnEnemyAt(t *testing.T, em *ecs.EntityManager, path *config.Path, x, y, health, speed float64) ecs.EntityID {
	t.Helper()
	def := &config.EnemyDef{ID: "basic", BaseHealth: health, BaseSpeed: speed, BaseReward: 10}
	id, err := entities.NewEnemyEntity(em, def, path, 1)
	if err != nil {
		t.Fatalf("failed to spawn enemy: %v", err)
	}
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	pos.X, pos.Y = x, y
	return id
}

// placeTowerAt 不经过放置校验直接创建防御塔
func placeTowerAt(t *testing.T, em *ecs.EntityManager, catalog *config.TowerCatalog, typeID string, x, y float64) ecs.EntityID {
	t.Helper()
	def, ok := catalog.Get(typeID)
	if !ok {
		t.Fatalf("unknown tower type %s", typeID)
	}
	id, err := entities.NewTowerEntity(em, def, x, y)
	if err != nil {
		t.Fatalf("failed to create tower: %v", err)
	}
	return id
}

func straightPath(length float64) *config.Path {
	return config.NewPath([]utils.Point{{X: 0, Y: 0}, {X: length, Y: 0}})
}

func health(em *ecs.EntityManager, id ecs.EntityID) float64 {
	h, _ := ecs.GetComponent[*components.HealthComponent](em, id)
	return h.Current
}

func speed(em *ecs.EntityManager, id ecs.EntityID) float64 {
	s, _ := ecs.GetComponent[*components.SpeedComponent](em, id)
	return s.Current
}
