package systems

import (
	"fmt"
	"log"
	"math"

	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/event"
	"github.com/gonewx/tdsim/pkg/game"
	"github.com/gonewx/tdsim/pkg/utils"
)

// SpawnEntry 波次中的一次生成
type SpawnEntry struct {
	EnemyType string
	Delay     float64 // 相对波次开始的秒数
}

// WaveSchedule 一个波次的生成计划，条目按 Delay 非递减排列
type WaveSchedule struct {
	Number     int
	Entries    []SpawnEntry
	IsBossWave bool
}

// WavePhase 波次调度阶段
type WavePhase int

const (
	// WavePhasePreparing 波次间的准备倒计时
	WavePhasePreparing WavePhase = iota
	// WavePhaseInProgress 波次进行中
	WavePhaseInProgress
	// WavePhaseFinished 最后一波已完成或对局已结束
	WavePhaseFinished
)

// String 返回阶段名称
func (p WavePhase) String() string {
	switch p {
	case WavePhasePreparing:
		return "preparing"
	case WavePhaseInProgress:
		return "in-progress"
	case WavePhaseFinished:
		return "finished"
	}
	return fmt.Sprintf("WavePhase(%d)", int(p))
}

// SpawnInterval 第 n 波的生成间隔
func SpawnInterval(n int, settings config.WaveSettings) float64 {
	si := settings.SpawnInterval
	return math.Max(si.Min, si.Base-si.DecrementPerWave*float64(n))
}

// BuildWave 生成第 n 波的计划
//
// 规则：
//   - 敌人池 = 基础类型 + 所有 minWave <= n 的类型
//   - 数量 = baseEnemyCount + floor(enemiesPerWave * n)
//   - 第 i 个敌人在 i*interval 秒生成，类型从池中均匀随机
//   - n 为 bossWaveFrequency 的倍数时，在最后一个普通敌人之后 bossDelay 秒追加一个 boss
func BuildWave(n int, settings config.WaveSettings, rng *utils.PRNGService) WaveSchedule {
	pool := []string{settings.BaseEnemyType}
	for _, tier := range settings.EnemyTiers {
		if n >= tier.MinWave {
			pool = append(pool, tier.Type)
		}
	}

	count := settings.BaseEnemyCount + int(math.Floor(settings.EnemiesPerWave*float64(n)))
	interval := SpawnInterval(n, settings)

	schedule := WaveSchedule{
		Number:  n,
		Entries: make([]SpawnEntry, 0, count+1),
	}

	lastDelay := 0.0
	for i := 0; i < count; i++ {
		lastDelay = float64(i) * interval
		schedule.Entries = append(schedule.Entries, SpawnEntry{
			EnemyType: pool[rng.Intn(len(pool))],
			Delay:     lastDelay,
		})
	}

	if settings.BossWaveFrequency > 0 && n%settings.BossWaveFrequency == 0 {
		tier := int(math.Ceil(float64(n) / float64(settings.BossWaveFrequency)))
		if tier > settings.MaxBossTier {
			tier = settings.MaxBossTier
		}
		schedule.IsBossWave = true
		schedule.Entries = append(schedule.Entries, SpawnEntry{
			EnemyType: fmt.Sprintf("%s%d", settings.BossTypePrefix, tier),
			Delay:     lastDelay + settings.BossDelay,
		})
	}

	return schedule
}

// WaveScheduler 波次调度器
//
// 职责：
//   - 准备倒计时结束（或玩家提前开始）时构建下一波
//   - 按经过时间释放到期的生成条目
//   - 统计本波剩余敌人，全部结算后进入下一次准备倒计时
//   - 完成最后一波时宣布胜利
type WaveScheduler struct {
	settings config.WaveSettings
	rng      *utils.PRNGService
	economy  *game.Economy
	bus      *event.Bus

	phase         WavePhase
	prepRemaining float64

	current   WaveSchedule
	elapsed   float64
	nextIndex int
	remaining int

	verbose bool
}

// NewWaveScheduler 创建波次调度器，对局从第一波之前的准备倒计时开始
func NewWaveScheduler(settings config.WaveSettings, rng *utils.PRNGService, economy *game.Economy, bus *event.Bus) *WaveScheduler {
	return &WaveScheduler{
		settings:      settings,
		rng:           rng,
		economy:       economy,
		bus:           bus,
		phase:         WavePhasePreparing,
		prepRemaining: settings.PreparationTime,
	}
}

// SetVerbose 设置是否输出每次生成的日志
func (s *WaveScheduler) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// Phase 当前阶段
func (s *WaveScheduler) Phase() WavePhase { return s.phase }

// WaveNumber 当前（或最近一次）波次编号，0 表示尚未开始
func (s *WaveScheduler) WaveNumber() int { return s.current.Number }

// PreparationRemaining 准备倒计时剩余秒数
func (s *WaveScheduler) PreparationRemaining() float64 {
	if s.phase != WavePhasePreparing {
		return 0
	}
	return s.prepRemaining
}

// Remaining 本波尚未结算的敌人数量（含尚未生成的）
func (s *WaveScheduler) Remaining() int { return s.remaining }

// Drained 本波计划是否已全部释放
func (s *WaveScheduler) Drained() bool {
	return s.nextIndex >= len(s.current.Entries)
}

// Current 当前波次计划
func (s *WaveScheduler) Current() WaveSchedule { return s.current }

// Update 推进调度器，返回本帧到期的生成条目
func (s *WaveScheduler) Update(dt float64) []SpawnEntry {
	switch s.phase {
	case WavePhasePreparing:
		s.prepRemaining -= dt
		if s.prepRemaining > 0 {
			return nil
		}
		s.startNext()
		return s.drain(0)

	case WavePhaseInProgress:
		return s.drain(dt)
	}
	return nil
}

// StartWave 跳过准备倒计时立即开始下一波
func (s *WaveScheduler) StartWave() error {
	switch s.phase {
	case WavePhaseInProgress:
		return fmt.Errorf("wave %d: %w", s.current.Number, game.ErrWaveInProgress)
	case WavePhaseFinished:
		return game.ErrMatchOver
	}
	s.startNext()
	return nil
}

// EnemyRetired 本波的一个敌人已结算（被击败、到达终点或生成失败）
func (s *WaveScheduler) EnemyRetired(wave int) {
	if wave != s.current.Number || s.remaining <= 0 {
		return
	}
	s.remaining--
}

// CheckCompletion 检查本波是否结束
// 结束后进入准备倒计时；若已是最后一波则宣布胜利
func (s *WaveScheduler) CheckCompletion() bool {
	if s.phase != WavePhaseInProgress || !s.Drained() || s.remaining > 0 {
		return false
	}

	n := s.current.Number
	log.Printf("[WaveScheduler] Wave %d completed", n)
	s.bus.Publish(event.Event{Type: event.WaveCompleted, Wave: n})

	if n >= s.settings.MaxWaves {
		s.phase = WavePhaseFinished
		s.economy.Win()
		return true
	}

	s.phase = WavePhasePreparing
	s.prepRemaining = s.settings.PreparationTime
	return true
}

// Stop 对局结束时停止调度
func (s *WaveScheduler) Stop() {
	s.phase = WavePhaseFinished
}

func (s *WaveScheduler) startNext() {
	n := s.current.Number + 1
	s.current = BuildWave(n, s.settings, s.rng)
	s.elapsed = 0
	s.nextIndex = 0
	s.remaining = len(s.current.Entries)
	s.phase = WavePhaseInProgress
	s.prepRemaining = 0

	s.economy.AdvanceWave(n)
	log.Printf("[WaveScheduler] Wave %d started: %d enemies (boss=%v)", n, len(s.current.Entries), s.current.IsBossWave)
	s.bus.Publish(event.Event{Type: event.WaveStarted, Wave: n, Amount: len(s.current.Entries)})
}

func (s *WaveScheduler) drain(dt float64) []SpawnEntry {
	s.elapsed += dt

	var due []SpawnEntry
	for s.nextIndex < len(s.current.Entries) && s.current.Entries[s.nextIndex].Delay <= s.elapsed {
		entry := s.current.Entries[s.nextIndex]
		due = append(due, entry)
		s.nextIndex++
		if s.verbose {
			log.Printf("[WaveScheduler] Wave %d: releasing %s at %.2fs", s.current.Number, entry.EnemyType, s.elapsed)
		}
	}
	return due
}
