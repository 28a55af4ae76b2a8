// Package event 提供对局内离散事件的同步分发
//
// 事件在模拟步内按发生顺序同步派发，监听者不得阻塞。
// 表现层（音效、提示、界面）通过订阅事件获知对局变化。
package event

import "github.com/google/uuid"

// Type 事件类型
type Type string

const (
	EnemySpawned    Type = "EnemySpawned"
	EnemyDefeated   Type = "EnemyDefeated"
	EnemyReachedEnd Type = "EnemyReachedEnd"
	TowerPlaced     Type = "TowerPlaced"
	TowerUpgraded   Type = "TowerUpgraded"
	TowerDemolished Type = "TowerDemolished"
	ProjectileFired Type = "ProjectileFired"
	WaveStarted     Type = "WaveStarted"
	WaveCompleted   Type = "WaveCompleted"
	GameOver        Type = "GameOver"
	Victory         Type = "Victory"
)

// Event 单个事件
type Event struct {
	Type    Type
	MatchID uuid.UUID

	// EntityID 相关实体（敌人、防御塔、投射物），没有时为 0
	EntityID uint64

	// DefID 相关实体的类型ID
	DefID string

	// Wave 事件发生时的波次
	Wave int

	// Amount 金额（奖励、花费、返还）或伤害等数值
	Amount int
}

// Listener 事件订阅者
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc 允许普通函数作为 Listener
type ListenerFunc func(e Event)

// OnEvent 实现 Listener
func (f ListenerFunc) OnEvent(e Event) { f(e) }

// Bus 事件总线
type Bus struct {
	matchID   uuid.UUID
	listeners map[Type][]Listener
	all       []Listener
}

// NewBus 创建绑定到指定对局的事件总线
func NewBus(matchID uuid.UUID) *Bus {
	return &Bus{
		matchID:   matchID,
		listeners: make(map[Type][]Listener),
	}
}

// MatchID 返回总线所属的对局ID
func (b *Bus) MatchID() uuid.UUID {
	return b.matchID
}

// Subscribe 订阅指定类型的事件
func (b *Bus) Subscribe(t Type, l Listener) {
	b.listeners[t] = append(b.listeners[t], l)
}

// SubscribeAll 订阅所有事件
func (b *Bus) SubscribeAll(l Listener) {
	b.all = append(b.all, l)
}

// Publish 派发事件，自动填充对局ID
// nil 总线上的调用被忽略
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	e.MatchID = b.matchID
	for _, l := range b.listeners[e.Type] {
		l.OnEvent(e)
	}
	for _, l := range b.all {
		l.OnEvent(e)
	}
}
