package systems

import (
	"math"
	"testing"

	"github.com/gonewx/tdsim/pkg/components"
	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/ecs"
)

func TestStatusEffect_SlowRefresh(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewStatusEffectSystem(em)
	id := spawnEnemyAt(t, em, straightPath(100), 0, 0, 100, 60)

	sys.Apply(id, config.EffectSlow, 0.3, 2)
	sys.Apply(id, config.EffectSlow, 0.5, 1)

	effects, _ := ecs.GetComponent[*components.StatusEffectsComponent](em, id)
	slow := effects.Effects[config.EffectSlow]
	if slow.Remaining != 2 {
		t.Errorf("refresh should keep the longer duration, got %v", slow.Remaining)
	}
	if slow.Power != 0.5 {
		t.Errorf("refresh should keep the higher power, got %v", slow.Power)
	}
	if len(effects.Order) != 1 {
		t.Errorf("expected one slow effect, got %d", len(effects.Order))
	}
	if math.Abs(speed(em, id)-30) > 1e-9 {
		t.Errorf("speed = %v, want 30", speed(em, id))
	}
}

func TestStatusEffect_SlowPowerClamped(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewStatusEffectSystem(em)
	id := spawnEnemyAt(t, em, straightPath(100), 0, 0, 100, 60)

	sys.Apply(id, config.EffectSlow, 1.7, 1)
	if speed(em, id) != 0 {
		t.Errorf("slow power above 1 should clamp to 1, speed = %v", speed(em, id))
	}
}

func TestStatusEffect_StunDominatesSlow(t *testing.T) {
	tests := []struct {
		name  string
		order []config.EffectKind
	}{
		{"先减速后眩晕", []config.EffectKind{config.EffectSlow, config.EffectStun}},
		{"先眩晕后减速", []config.EffectKind{config.EffectStun, config.EffectSlow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			sys := NewStatusEffectSystem(em)
			id := spawnEnemyAt(t, em, straightPath(100), 0, 0, 100, 60)

			for _, kind := range tt.order {
				duration := 3.0
				if kind == config.EffectStun {
					duration = 1
				}
				sys.Apply(id, kind, 0.5, duration)
			}
			if speed(em, id) != 0 {
				t.Fatalf("stunned enemy should not move, speed = %v", speed(em, id))
			}

			// 眩晕结束后回到减速速度
			sys.Tick(id, 1.5)
			if math.Abs(speed(em, id)-30) > 1e-9 {
				t.Errorf("after stun expires speed = %v, want 30", speed(em, id))
			}

			// 减速结束后回到基础速度
			sys.Tick(id, 2)
			if speed(em, id) != 60 {
				t.Errorf("after slow expires speed = %v, want 60", speed(em, id))
			}
			if sys.Has(id, config.EffectSlow) || sys.Has(id, config.EffectStun) {
				t.Error("expired effects should be removed")
			}
		})
	}
}

func TestStatusEffect_DamageOverTime(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewStatusEffectSystem(em)
	id := spawnEnemyAt(t, em, straightPath(100), 0, 0, 100, 60)

	sys.Apply(id, config.EffectPoison, 10, 1)
	sys.Apply(id, config.EffectFire, 5, 0.5)

	for i := 0; i < 4; i++ {
		sys.Tick(id, 0.3)
	}

	// 毒 4 帧 * 10*0.3，火 2 帧 * 5*0.3，到期那一帧也结算
	if math.Abs(health(em, id)-85) > 1e-9 {
		t.Errorf("health = %v, want 85", health(em, id))
	}
	if sys.Has(id, config.EffectPoison) || sys.Has(id, config.EffectFire) {
		t.Error("damage effects should expire")
	}
}

func TestStatusEffect_DamageAppliedOnExpiringTick(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewStatusEffectSystem(em)
	id := spawnEnemyAt(t, em, straightPath(100), 0, 0, 100, 60)

	sys.Apply(id, config.EffectPoison, 10, 1)

	want := []float64{97, 94, 91, 88}
	for i, w := range want {
		sys.Tick(id, 0.3)
		if math.Abs(health(em, id)-w) > 1e-9 {
			t.Fatalf("tick %d: health = %v, want %v", i+1, health(em, id), w)
		}
	}
	if sys.Has(id, config.EffectPoison) {
		t.Error("poison should expire after its last tick")
	}
}

func TestStatusEffect_DamageCanKill(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewStatusEffectSystem(em)
	id := spawnEnemyAt(t, em, straightPath(100), 0, 0, 5, 60)

	sys.Apply(id, config.EffectFire, 20, 2)
	sys.Tick(id, 1)

	if health(em, id) > 0 {
		t.Errorf("enemy should be at or below zero health, got %v", health(em, id))
	}
}

func TestStatusEffect_ConfusionRewindsOnce(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewStatusEffectSystem(em)
	id := spawnEnemyAt(t, em, straightPath(100), 0, 0, 100, 60)

	follower, _ := ecs.GetComponent[*components.PathFollowerComponent](em, id)
	follower.SegmentIndex = 3

	sys.Apply(id, config.EffectConfusion, 1, 2)
	if follower.SegmentIndex != 1 {
		t.Fatalf("confusion should rewind two segments, got %d", follower.SegmentIndex)
	}

	sys.Apply(id, config.EffectConfusion, 1, 5)
	if follower.SegmentIndex != 1 {
		t.Errorf("refreshing confusion must not rewind again, got %d", follower.SegmentIndex)
	}

	sys.Tick(id, 6)
	follower.SegmentIndex = 1
	sys.Apply(id, config.EffectConfusion, 1, 1)
	if follower.SegmentIndex != 0 {
		t.Errorf("rewind should clamp at 0, got %d", follower.SegmentIndex)
	}
}

func TestStatusEffect_IgnoresInvalid(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewStatusEffectSystem(em)
	id := spawnEnemyAt(t, em, straightPath(100), 0, 0, 100, 60)

	sys.Apply(id, config.EffectSlow, 0.5, 0)
	sys.Apply(id, config.EffectKind("freeze"), 1, 3)
	sys.Apply(id, config.EffectNone, 1, 3)
	sys.Apply(999, config.EffectSlow, 0.5, 3)

	effects, _ := ecs.GetComponent[*components.StatusEffectsComponent](em, id)
	if len(effects.Effects) != 0 {
		t.Errorf("no effect should be applied, got %d", len(effects.Effects))
	}
}
