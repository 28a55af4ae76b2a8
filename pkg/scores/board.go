// Package scores 记录对局成绩排行榜
package scores

import (
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 排行榜参数
const (
	MaxEntries      = 100
	DefaultTopCount = 10
)

// 存储路径常量
const (
	scoresObject   = "scores"
	scoresProperty = "board"
)

// Entry 一条成绩记录
type Entry struct {
	MatchID     uuid.UUID `yaml:"matchId"`
	PlayerName  string    `yaml:"playerName"`
	MapName     string    `yaml:"mapName"`
	WaveReached int       `yaml:"waveReached"`
}

type boardData struct {
	Entries []Entry `yaml:"entries"`
}

// Board 成绩排行榜
// 按到达波次降序排列，波次相同时先记录的在前，最多保留 MaxEntries 条
type Board struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存）
	entries      []Entry
}

// OpenStorage 打开应用的 gdata 存储
func OpenStorage(appName string) (*gdata.Manager, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage for %s: %w", appName, err)
	}
	return manager, nil
}

// NewBoard 创建排行榜并加载已保存的记录
//
// 参数：
//   - gdataManager: 存储管理器，可为 nil（降级模式，记录只保存在内存中）
//
// 加载失败时记录警告并从空榜开始
func NewBoard(gdataManager *gdata.Manager) *Board {
	b := &Board{gdataManager: gdataManager}
	if err := b.Load(); err != nil {
		log.Printf("[Scores] Warning: Failed to load score board: %v (starting empty)", err)
	}
	return b
}

// Load 从存储加载排行榜
func (b *Board) Load() error {
	b.entries = nil
	if b.gdataManager == nil || !b.gdataManager.ObjectPropExists(scoresObject, scoresProperty) {
		return nil
	}

	data, err := b.gdataManager.LoadObjectProp(scoresObject, scoresProperty)
	if err != nil {
		return fmt.Errorf("failed to load scores: %w", err)
	}

	var saved boardData
	if err := yaml.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("failed to unmarshal scores: %w", err)
	}

	b.entries = saved.Entries
	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[i].WaveReached > b.entries[j].WaveReached
	})
	if len(b.entries) > MaxEntries {
		b.entries = b.entries[:MaxEntries]
	}
	return nil
}

// Save 保存排行榜；降级模式下直接返回 nil
func (b *Board) Save() error {
	if b.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(boardData{Entries: b.entries})
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}
	if err := b.gdataManager.SaveObjectProp(scoresObject, scoresProperty, data); err != nil {
		return fmt.Errorf("failed to save scores: %w", err)
	}
	return nil
}

// Add 记录一条成绩
// 返回名次（从 1 开始）；未能进入排行榜时返回 0
func (b *Board) Add(entry Entry) int {
	pos := sort.Search(len(b.entries), func(i int) bool {
		return b.entries[i].WaveReached < entry.WaveReached
	})
	if pos >= MaxEntries {
		return 0
	}

	b.entries = append(b.entries, Entry{})
	copy(b.entries[pos+1:], b.entries[pos:])
	b.entries[pos] = entry
	if len(b.entries) > MaxEntries {
		b.entries = b.entries[:MaxEntries]
	}

	log.Printf("[Scores] %s reached wave %d on %s (rank %d)", entry.PlayerName, entry.WaveReached, entry.MapName, pos+1)
	return pos + 1
}

// Top 返回前 n 条记录的副本；n <= 0 时返回 DefaultTopCount 条
func (b *Board) Top(n int) []Entry {
	if n <= 0 {
		n = DefaultTopCount
	}
	if n > len(b.entries) {
		n = len(b.entries)
	}
	return append([]Entry(nil), b.entries[:n]...)
}

// Len 当前记录数量
func (b *Board) Len() int {
	return len(b.entries)
}

// IsHighScore 到达 wave 波的成绩能否进入排行榜
func (b *Board) IsHighScore(wave int) bool {
	if len(b.entries) < MaxEntries {
		return true
	}
	return wave > b.entries[len(b.entries)-1].WaveReached
}
