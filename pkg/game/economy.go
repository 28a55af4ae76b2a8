package game

import (
	"fmt"
	"log"

	"github.com/gonewx/tdsim/pkg/event"
)

// Outcome 对局结果
type Outcome int

const (
	OutcomePlaying Outcome = iota
	OutcomeDefeat
	OutcomeVictory
)

// String 返回结果名称
func (o Outcome) String() string {
	switch o {
	case OutcomePlaying:
		return "playing"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeVictory:
		return "victory"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Economy 玩家经济与生命
// 金钱永不为负；生命降到 0 时对局失败，且只触发一次
type Economy struct {
	money   int
	lives   int
	wave    int
	outcome Outcome

	bus *event.Bus
}

// NewEconomy 以地图的初始金钱和生命创建经济控制器
// bus 可为 nil
func NewEconomy(startingMoney, lives int, bus *event.Bus) *Economy {
	if startingMoney < 0 {
		startingMoney = 0
	}
	return &Economy{
		money: startingMoney,
		lives: lives,
		bus:   bus,
	}
}

// Money 当前金钱
func (e *Economy) Money() int { return e.money }

// Lives 当前剩余生命
func (e *Economy) Lives() int { return e.lives }

// Wave 当前波次（0 表示第一波尚未开始）
func (e *Economy) Wave() int { return e.wave }

// Outcome 当前对局结果
func (e *Economy) Outcome() Outcome { return e.outcome }

// IsOver 对局是否已结束
func (e *Economy) IsOver() bool { return e.outcome != OutcomePlaying }

// CanAfford 判断金钱是否足够
func (e *Economy) CanAfford(amount int) bool {
	return e.money >= amount
}

// Spend 扣除金钱
// 金钱不足时返回 ErrInsufficientFunds，且不修改任何状态
func (e *Economy) Spend(amount int) error {
	if amount < 0 {
		return fmt.Errorf("spend amount cannot be negative: %d", amount)
	}
	if e.money < amount {
		return fmt.Errorf("need %d, have %d: %w", amount, e.money, ErrInsufficientFunds)
	}
	e.money -= amount
	return nil
}

// Earn 增加金钱，负数被忽略
func (e *Economy) Earn(amount int) {
	if amount <= 0 {
		return
	}
	e.money += amount
}

// LoseLife 扣除生命；生命 <= 0 时进入失败状态
// 失败状态只进入一次，之后的调用不会重复派发事件
func (e *Economy) LoseLife(amount int) {
	if amount <= 0 || e.IsOver() {
		return
	}
	e.lives -= amount
	if e.lives <= 0 {
		e.lives = 0
		e.outcome = OutcomeDefeat
		log.Printf("[Economy] Game over at wave %d", e.wave)
		e.bus.Publish(event.Event{Type: event.GameOver, Wave: e.wave})
	}
}

// EnemyDefeated 敌人被击败时发放奖励（不影响生命）
func (e *Economy) EnemyDefeated(reward int) {
	e.Earn(reward)
}

// EnemyReachedEnd 敌人到达终点时扣除一条生命（不发放奖励）
func (e *Economy) EnemyReachedEnd() {
	e.LoseLife(1)
}

// AdvanceWave 记录新的波次编号
func (e *Economy) AdvanceWave(wave int) {
	if wave > e.wave {
		e.wave = wave
	}
}

// Win 进入胜利状态，只触发一次
func (e *Economy) Win() {
	if e.IsOver() {
		return
	}
	e.outcome = OutcomeVictory
	log.Printf("[Economy] Victory after wave %d", e.wave)
	e.bus.Publish(event.Event{Type: event.Victory, Wave: e.wave})
}
