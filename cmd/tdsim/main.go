// tdsim 无界面运行一场对局
//
// 用法：
//
//	go run ./cmd/tdsim -map meadow -seed 42 -towers "arrow:120:240,frost:300:240"
//
// 按固定步长推进到对局结束（或达到 -max-ticks），打印结果并记录排行榜。
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/event"
	"github.com/gonewx/tdsim/pkg/match"
	"github.com/gonewx/tdsim/pkg/scores"
)

var (
	dataDir    = flag.String("data", "data", "配置目录")
	mapID      = flag.String("map", "", "地图ID（默认使用第一张地图）")
	seed       = flag.Int64("seed", 1, "随机种子")
	towers     = flag.String("towers", "", "开局建造的防御塔，格式 type:x:y，逗号分隔")
	maxTicks   = flag.Int("max-ticks", 60*60*60, "最多推进的模拟步数")
	playerName = flag.String("player", "cli", "排行榜上的玩家名")
	saveScore  = flag.Bool("scores", false, "把成绩写入排行榜")
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
)

type placement struct {
	typeID string
	x, y   float64
}

// parsePlacements 解析 "type:x:y,type:x:y"
func parsePlacements(raw string) ([]placement, error) {
	var result []placement
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.Split(item, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid tower %q, want type:x:y", item)
		}
		x, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid x in %q: %w", item, err)
		}
		y, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid y in %q: %w", item, err)
		}
		result = append(result, placement{typeID: parts[0], x: x, y: y})
	}
	return result, nil
}

func main() {
	flag.Parse()

	placements, err := parsePlacements(*towers)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	cfg, err := config.LoadMatchConfigDir(*dataDir)
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", *dataDir, err)
	}

	m, err := match.New(cfg, match.Options{MapID: *mapID, Seed: *seed, Verbose: *verbose})
	if err != nil {
		log.Fatalf("Failed to create match: %v", err)
	}

	m.Bus().SubscribeAll(event.ListenerFunc(func(e event.Event) {
		switch e.Type {
		case event.WaveStarted, event.WaveCompleted, event.GameOver, event.Victory,
			event.TowerPlaced, event.TowerUpgraded, event.TowerDemolished:
			log.Printf("[tdsim] %s wave=%d def=%s amount=%d", e.Type, e.Wave, e.DefID, e.Amount)
		default:
			if *verbose {
				log.Printf("[tdsim] %s entity=%d def=%s wave=%d", e.Type, e.EntityID, e.DefID, e.Wave)
			}
		}
	}))

	for _, p := range placements {
		if _, err := m.PlaceTower(p.typeID, p.x, p.y); err != nil {
			log.Printf("[tdsim] Warning: cannot place %s at (%.0f, %.0f): %v", p.typeID, p.x, p.y, err)
		}
	}

	step := 1 / float64(cfg.Settings.GameSettings.TickRate)
	ticks := 0
	for ; ticks < *maxTicks && !m.IsOver(); ticks++ {
		m.Tick(step)
	}

	snap := m.Snapshot()
	fmt.Printf("Match %s on %s\n", m.ID(), m.Map().Name)
	fmt.Printf("  outcome:  %s\n", snap.Player.Outcome)
	fmt.Printf("  wave:     %d/%d\n", m.FinalWave(), snap.Wave.MaxWaves)
	fmt.Printf("  money:    %d\n", snap.Player.Money)
	fmt.Printf("  lives:    %d\n", snap.Player.Lives)
	fmt.Printf("  defeated: %d, leaked: %d\n", snap.Defeated, snap.Leaked)
	fmt.Printf("  time:     %.1fs (%d ticks)\n", snap.Elapsed, ticks)

	if !*saveScore {
		return
	}
	storage, err := scores.OpenStorage("tdsim")
	if err != nil {
		log.Printf("[tdsim] Warning: %v", err)
		os.Exit(1)
	}
	board := scores.NewBoard(storage)
	if !board.IsHighScore(m.FinalWave()) {
		fmt.Printf("  wave %d did not make the board (%d entries)\n", m.FinalWave(), board.Len())
		return
	}
	rank := board.Add(scores.Entry{
		MatchID:     m.ID(),
		PlayerName:  *playerName,
		MapName:     m.Map().Name,
		WaveReached: m.FinalWave(),
	})
	if err := board.Save(); err != nil {
		log.Fatalf("Failed to save scores: %v", err)
	}
	if rank > 0 {
		fmt.Printf("  rank:     %d\n", rank)
	}
	for i, entry := range board.Top(0) {
		fmt.Printf("  %2d. %-12s %-10s wave %d\n", i+1, entry.PlayerName, entry.MapName, entry.WaveReached)
	}
}
