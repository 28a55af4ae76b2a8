package systems

import (
	"testing"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/ecs"
)

func setProgress(em *ecs.EntityManager, id ecs.EntityID, progress float64) {
	f, _ := ecs.GetComponent[*components.PathFollowerComponent](em, id)
	f.Progress = progress
}

func newTargetingFixture(t *testing.T) (*ecs.EntityManager, *TargetingSystem, *ProjectileSystem) {
	t.Helper()
	em := ecs.NewEntityManager()
	status := NewStatusEffectSystem(em)
	projectiles := NewProjectileSystem(em, status, newTestMap(t), 10, nil)
	return em, NewTargetingSystem(em, projectiles), projectiles
}

func TestSelectTarget_HighestProgressInRange(t *testing.T) {
	em, sys, _ := newTargetingFixture(t)
	path := straightPath(1000)

	a := spawnEnemyAt(t, em, path, 50, 0, 100, 0)
	b := spawnEnemyAt(t, em, path, 60, 0, 100, 0)
	far := spawnEnemyAt(t, em, path, 150, 0, 100, 0)
	dead := spawnEnemyAt(t, em, path, 10, 0, 100, 0)
	leaked := spawnEnemyAt(t, em, path, 20, 0, 100, 0)

	setProgress(em, a, 0.3)
	setProgress(em, b, 0.6)
	setProgress(em, far, 0.9)
	setProgress(em, dead, 0.95)
	setProgress(em, leaked, 0.99)

	h, _ := ecs.GetComponent[*components.HealthComponent](em, dead)
	h.Current = 0
	e, _ := ecs.GetComponent[*components.EnemyComponent](em, leaked)
	e.ReachedEnd = true

	if got := sys.SelectTarget(0, 0, 100); got != b {
		t.Errorf("SelectTarget() = %d, want %d", got, b)
	}
}

func TestSelectTarget_TieBreaksByOrder(t *testing.T) {
	em, sys, _ := newTargetingFixture(t)
	path := straightPath(1000)

	first := spawnEnemyAt(t, em, path, 30, 0, 100, 0)
	second := spawnEnemyAt(t, em, path, 20, 0, 100, 0)
	setProgress(em, first, 0.5)
	setProgress(em, second, 0.5)

	if got := sys.SelectTarget(0, 0, 100); got != first {
		t.Errorf("SelectTarget() = %d, want first enemy %d", got, first)
	}
}

func TestSelectTarget_RangeBoundaryInclusive(t *testing.T) {
	em, sys, _ := newTargetingFixture(t)
	id := spawnEnemyAt(t, em, straightPath(1000), 60, 80, 100, 0)

	if got := sys.SelectTarget(0, 0, 100); got != id {
		t.Errorf("enemy exactly at range should be targeted, got %d", got)
	}
	if got := sys.SelectTarget(0, 0, 99.99); got != 0 {
		t.Errorf("enemy beyond range should not be targeted, got %d", got)
	}
}

func TestTargetingUpdate_CooldownCadence(t *testing.T) {
	em, sys, projectiles := newTargetingFixture(t)
	towerID := placeTowerAt(t, em, newTestTowerCatalog(t), "arrow", 0, 0) // 攻速 2/秒

	// 没有目标时不开火
	sys.Update(0.1)
	if projectiles.ActiveCount() != 0 {
		t.Fatal("tower should idle without targets")
	}

	spawnEnemyAt(t, em, straightPath(1000), 100, 0, 100, 0)

	sys.Update(0.125)
	if projectiles.ActiveCount() != 1 {
		t.Fatalf("tower should fire immediately, projectiles = %d", projectiles.ActiveCount())
	}
	combat, _ := ecs.GetComponent[*components.CombatComponent](em, towerID)
	if combat.Cooldown != 0.5 {
		t.Errorf("cooldown = %v, want 0.5", combat.Cooldown)
	}

	// 冷却中：只递减，不开火
	for i := 0; i < 3; i++ {
		sys.Update(0.125)
	}
	if projectiles.ActiveCount() != 1 {
		t.Errorf("tower fired during cooldown, projectiles = %d", projectiles.ActiveCount())
	}

	sys.Update(0.125)
	if projectiles.ActiveCount() != 2 {
		t.Errorf("tower should fire when cooldown elapses, projectiles = %d", projectiles.ActiveCount())
	}
}

func TestTargetingUpdate_TargetClearedWhenNoneInRange(t *testing.T) {
	em, sys, _ := newTargetingFixture(t)
	towerID := placeTowerAt(t, em, newTestTowerCatalog(t), "arrow", 0, 0)
	enemy := spawnEnemyAt(t, em, straightPath(1000), 100, 0, 100, 0)

	sys.Update(0.016)
	combat, _ := ecs.GetComponent[*components.CombatComponent](em, towerID)
	if combat.TargetID != enemy {
		t.Fatalf("TargetID = %d, want %d", combat.TargetID, enemy)
	}

	pos, _ := ecs.GetComponent[*components.PositionComponent](em, enemy)
	pos.X = 500
	sys.Update(0.016)
	if combat.TargetID != 0 {
		t.Errorf("TargetID should be cleared, got %d", combat.TargetID)
	}
}
