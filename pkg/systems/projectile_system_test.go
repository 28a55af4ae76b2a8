package systems

import (
	"testing"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/ecs"
	"github.com/gonewx/tdsim/pkg/event"
	"github.com/google/uuid"
)

func newProjectileFixture(t *testing.T) (*ecs.EntityManager, *ProjectileSystem) {
	t.Helper()
	em := ecs.NewEntityManager()
	status := NewStatusEffectSystem(em)
	return em, NewProjectileSystem(em, status, newTestMap(t), 10, nil)
}

func TestProjectile_SingleTargetHitAppliesDamageThenEffect(t *testing.T) {
	em, sys := newProjectileFixture(t)
	tower := placeTowerAt(t, em, newTestTowerCatalog(t), "frost", 100, 300)
	enemy := spawnEnemyAt(t, em, straightPath(1000), 200, 300, 100, 60)

	projectile, err := sys.Spawn(tower, enemy)
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}

	// 400/秒，每帧 40，第三帧的飞行线段经过目标
	sys.Update(0.1)
	sys.Update(0.1)
	if health(em, enemy) != 100 {
		t.Fatalf("projectile hit too early, health = %v", health(em, enemy))
	}
	sys.Update(0.1)

	if got := health(em, enemy); got != 80 {
		t.Errorf("health = %v, want 80", got)
	}
	if got := speed(em, enemy); got != 36 {
		t.Errorf("speed = %v, want 36 (60 slowed by 0.4)", got)
	}
	if !em.IsMarkedForDestroy(projectile) {
		t.Error("resolved projectile should be marked for destruction")
	}
	if sys.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, want 0", sys.ActiveCount())
	}

	// 已结算的投射物不会再次造成伤害
	sys.Update(0.1)
	if got := health(em, enemy); got != 80 {
		t.Errorf("projectile resolved twice, health = %v", got)
	}
}

func TestProjectile_StaleTargetExpiresHarmlessly(t *testing.T) {
	em, sys := newProjectileFixture(t)
	tower := placeTowerAt(t, em, newTestTowerCatalog(t), "arrow", 100, 300)
	target := spawnEnemyAt(t, em, straightPath(1000), 200, 300, 100, 0)

	if _, err := sys.Spawn(tower, target); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}

	// 目标在命中前被击败，另一个敌人站在原目标点上
	h, _ := ecs.GetComponent[*components.HealthComponent](em, target)
	h.Current = 0
	bystander := spawnEnemyAt(t, em, straightPath(1000), 200, 300, 100, 0)

	for i := 0; i < 10; i++ {
		sys.Update(0.1)
	}

	if sys.ActiveCount() != 0 {
		t.Errorf("stale projectile should have expired, active = %d", sys.ActiveCount())
	}
	if got := health(em, bystander); got != 100 {
		t.Errorf("bystander health = %v, want 100", got)
	}
	if got := health(em, target); got != 0 {
		t.Errorf("dead target health = %v, want 0", got)
	}
}

func TestProjectile_AreaSplashRadiusInclusive(t *testing.T) {
	em, sys := newProjectileFixture(t)
	tower := placeTowerAt(t, em, newTestTowerCatalog(t), "cannon", 100, 300)
	path := straightPath(1000)

	target := spawnEnemyAt(t, em, path, 300, 300, 100, 0)
	edge := spawnEnemyAt(t, em, path, 350, 300, 100, 0)
	outside := spawnEnemyAt(t, em, path, 350.01, 300, 100, 0)

	if _, err := sys.Spawn(tower, target); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	sys.Update(0.5)
	if health(em, target) != 100 {
		t.Fatal("area projectile should not detonate before reaching its target point")
	}
	sys.Update(0.5)

	tests := []struct {
		name string
		id   ecs.EntityID
		want float64
	}{
		{"目标点", target, 60},
		{"半径边界", edge, 60},
		{"半径之外", outside, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := health(em, tt.id); got != tt.want {
				t.Errorf("health = %v, want %v", got, tt.want)
			}
		})
	}

	if sys.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, want 0", sys.ActiveCount())
	}
}

func TestProjectile_DiscardedOutsideBattlefield(t *testing.T) {
	em, sys := newProjectileFixture(t)
	tower := placeTowerAt(t, em, newTestTowerCatalog(t), "arrow", 790, 300)
	enemy := spawnEnemyAt(t, em, straightPath(1000), 1000, 300, 100, 0)

	if _, err := sys.Spawn(tower, enemy); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	sys.Update(0.1)

	if sys.ActiveCount() != 0 {
		t.Errorf("out-of-bounds projectile should be discarded, active = %d", sys.ActiveCount())
	}
	if got := health(em, enemy); got != 100 {
		t.Errorf("health = %v, want 100", got)
	}
}

func TestProjectile_SpawnPublishesEvent(t *testing.T) {
	em := ecs.NewEntityManager()
	bus := event.NewBus(uuid.New())
	sys := NewProjectileSystem(em, NewStatusEffectSystem(em), newTestMap(t), 10, bus)

	var fired []event.Event
	bus.Subscribe(event.ProjectileFired, event.ListenerFunc(func(e event.Event) {
		fired = append(fired, e)
	}))

	tower := placeTowerAt(t, em, newTestTowerCatalog(t), "arrow", 100, 300)
	enemy := spawnEnemyAt(t, em, straightPath(1000), 200, 300, 100, 0)
	if _, err := sys.Spawn(tower, enemy); err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}

	if len(fired) != 1 {
		t.Fatalf("got %d ProjectileFired events, want 1", len(fired))
	}
	if fired[0].DefID != "arrow" || fired[0].MatchID != bus.MatchID() {
		t.Errorf("unexpected event %+v", fired[0])
	}
}

func TestProjectile_SpawnWithoutTargetFails(t *testing.T) {
	em, sys := newProjectileFixture(t)
	tower := placeTowerAt(t, em, newTestTowerCatalog(t), "arrow", 100, 300)

	if _, err := sys.Spawn(tower, 999); err == nil {
		t.Error("Spawn() with unknown target should fail")
	}
}
