// Package app 提供对局查看器的 ebiten 包装
//
// 桌面端通过 main.go 调用 NewApp()，调用前必须先调用 embedded.Init()。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/gonewx/tdsim/pkg/config"
	"github.com/gonewx/tdsim/pkg/embedded"
	"github.com/gonewx/tdsim/pkg/event"
	"github.com/gonewx/tdsim/pkg/game"
	"github.com/gonewx/tdsim/pkg/match"
	"github.com/gonewx/tdsim/pkg/scores"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// MapID 地图ID，为空时使用第一张地图
	MapID string
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
	// PlayerName 排行榜上的玩家名
	PlayerName string
	// StorageName gdata 存储名，为空时不保存成绩
	StorageName string
	// Audio 启用事件提示音
	Audio bool
}

const (
	towerPickRadius = 16
	messageDuration = 2.0
)

var (
	colorGrass      = color.RGBA{R: 96, G: 140, B: 72, A: 255}
	colorBuildable  = color.RGBA{R: 120, G: 170, B: 90, A: 255}
	colorPath       = color.RGBA{R: 190, G: 160, B: 110, A: 255}
	colorTower      = color.RGBA{R: 60, G: 90, B: 200, A: 255}
	colorRange      = color.RGBA{R: 255, G: 255, B: 255, A: 80}
	colorEnemy      = color.RGBA{R: 200, G: 60, B: 60, A: 255}
	colorBoss       = color.RGBA{R: 130, G: 20, B: 120, A: 255}
	colorHealthBack = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	colorHealth     = color.RGBA{R: 80, G: 220, B: 80, A: 255}
	colorProjectile = color.RGBA{R: 250, G: 240, B: 120, A: 255}
	colorStunned    = color.RGBA{R: 250, G: 250, B: 250, A: 255}
)

// App 对局查看器，实现 ebiten.Game 接口
// 只读取对局快照进行绘制，所有操作都通过对局命令完成
type App struct {
	match      *match.Match
	board      *scores.Board
	towerTypes []string
	selected   int

	message    string
	messageTTL float64
	recorded   bool
	playerName string

	font *text.GoTextFace
}

// Update 处理输入并推进对局
func (a *App) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.report(a.match.StartWave())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.match.SetPaused(!a.match.Paused())
	}
	for i := range a.towerTypes {
		if i < 9 && inpututil.IsKeyJustPressed(ebiten.KeyDigit1+ebiten.Key(i)) {
			a.selected = i
			a.flash(fmt.Sprintf("Selected %s", a.towerTypes[i]))
		}
	}

	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && len(a.towerTypes) > 0 {
		_, err := a.match.PlaceTower(a.towerTypes[a.selected], x, y)
		a.report(err)
	}
	if id, ok := a.match.TowerAt(x, y, towerPickRadius); ok {
		if inpututil.IsKeyJustPressed(ebiten.KeyU) {
			cost, err := a.match.UpgradeTower(id)
			if err == nil {
				a.flash(fmt.Sprintf("Upgraded for %d", cost))
			}
			a.report(err)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyD) {
			refund, err := a.match.DemolishTower(id)
			if err == nil {
				a.flash(fmt.Sprintf("Demolished, refunded %d", refund))
			}
			a.report(err)
		}
	}

	a.match.Update(dt)

	if a.messageTTL > 0 {
		a.messageTTL -= dt
	}
	if a.match.IsOver() && !a.recorded {
		a.recordScore()
	}
	return nil
}

// Draw 绘制战场与状态栏
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colorGrass)
	battlefield := a.match.Map()

	for _, area := range battlefield.BuildableAreas {
		vector.DrawFilledRect(screen, float32(area.X), float32(area.Y), float32(area.Width), float32(area.Height), colorBuildable, false)
	}
	points := battlefield.Path().Points
	for i := 0; i+1 < len(points); i++ {
		from, to := points[i], points[i+1]
		vector.StrokeLine(screen, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), 24, colorPath, true)
	}

	snap := a.match.Snapshot()
	for _, tower := range snap.Towers {
		vector.StrokeCircle(screen, float32(tower.X), float32(tower.Y), float32(tower.Range), 1, colorRange, true)
		vector.DrawFilledCircle(screen, float32(tower.X), float32(tower.Y), 12, colorTower, true)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", tower.Level), int(tower.X)-3, int(tower.Y)-8)
	}
	for _, enemy := range snap.Enemies {
		c, r := colorEnemy, float32(8)
		if enemy.IsBoss {
			c, r = colorBoss, 14
		}
		vector.DrawFilledCircle(screen, float32(enemy.X), float32(enemy.Y), r, c, true)
		if enemy.Stunned {
			vector.StrokeCircle(screen, float32(enemy.X), float32(enemy.Y), r+3, 2, colorStunned, true)
		}

		ratio := 0.0
		if enemy.MaxHealth > 0 {
			ratio = enemy.Health / enemy.MaxHealth
		}
		barX, barY := float32(enemy.X)-r, float32(enemy.Y)-r-6
		vector.DrawFilledRect(screen, barX, barY, 2*r, 3, colorHealthBack, false)
		vector.DrawFilledRect(screen, barX, barY, 2*r*float32(ratio), 3, colorHealth, false)
	}
	for _, p := range snap.Projectiles {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), 3, colorProjectile, true)
	}

	selected := ""
	if len(a.towerTypes) > 0 {
		selected = a.towerTypes[a.selected]
	}
	hud := fmt.Sprintf("Money %d  Lives %d  Wave %d/%d (%s)  Enemies %d  Tower [%s]",
		snap.Player.Money, snap.Player.Lives, snap.Wave.Number, snap.Wave.MaxWaves, snap.Wave.Phase, snap.Wave.Alive, selected)
	if snap.Wave.PreparationRemaining > 0 {
		hud += fmt.Sprintf("  Next wave in %.0fs", snap.Wave.PreparationRemaining)
	}
	if snap.Paused {
		hud += "  PAUSED"
	}
	a.drawText(screen, hud, 8, 4, color.White)
	a.drawText(screen, "Space: start wave  P: pause  1-9: tower  Click: place  U/D: upgrade/demolish", 8, int(battlefield.Height)-22, color.White)

	if snap.Player.Outcome != game.OutcomePlaying {
		a.drawText(screen, fmt.Sprintf("%s at wave %d", snap.Player.Outcome, a.match.FinalWave()), int(battlefield.Width)/2-60, int(battlefield.Height)/2, color.White)
	} else if a.messageTTL > 0 {
		a.drawText(screen, a.message, 8, 24, colorProjectile)
	}
}

// Layout 返回战场尺寸作为逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	m := a.match.Map()
	return int(m.Width), int(m.Height)
}

func (a *App) flash(msg string) {
	a.message = msg
	a.messageTTL = messageDuration
}

// report 将命令错误显示给玩家
func (a *App) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, game.ErrInsufficientFunds):
		a.flash("Not enough money")
	case errors.Is(err, game.ErrInvalidPlacement):
		a.flash("Cannot build here")
	case errors.Is(err, game.ErrWaveInProgress):
		a.flash("Wave already in progress")
	default:
		a.flash(err.Error())
	}
}

func (a *App) recordScore() {
	a.recorded = true
	wave := a.match.FinalWave()
	if !a.board.IsHighScore(wave) {
		a.flash(fmt.Sprintf("Wave %d is not in the top %d", wave, a.board.Len()))
		return
	}
	rank := a.board.Add(scores.Entry{
		MatchID:     a.match.ID(),
		PlayerName:  a.playerName,
		MapName:     a.match.Map().Name,
		WaveReached: wave,
	})
	if err := a.board.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	if rank > 0 {
		log.Printf("[App] New high score, rank %d", rank)
	}
}

// NewApp 加载嵌入配置并创建对局
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	data, err := embedded.Data()
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded data: %w", err)
	}
	matchConfig, err := config.LoadMatchConfigFS(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	m, err := match.New(matchConfig, match.Options{MapID: cfg.MapID, Seed: cfg.Seed, Verbose: cfg.Verbose})
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	m.Bus().SubscribeAll(event.ListenerFunc(func(e event.Event) {
		if e.Type == event.ProjectileFired {
			return
		}
		log.Printf("[App] %s entity=%d def=%s wave=%d amount=%d", e.Type, e.EntityID, e.DefID, e.Wave, e.Amount)
	}))

	// 存储不可用时排行榜退化为仅内存
	var board *scores.Board
	if cfg.StorageName != "" {
		storage, err := scores.OpenStorage(cfg.StorageName)
		if err != nil {
			log.Printf("[App] Warning: %v (scores will not be saved)", err)
		}
		board = scores.NewBoard(storage)
	} else {
		board = scores.NewBoard(nil)
	}

	if cfg.Audio {
		// 初始化音频上下文
		NewSoundHooks(audio.NewContext(sampleRate)).Attach(m.Bus())
	}

	font, err := loadHUDFont(hudFontSize)
	if err != nil {
		log.Printf("[App] Warning: %v (falling back to debug font)", err)
	}

	return &App{
		match:      m,
		board:      board,
		towerTypes: towerTypeIDs(matchConfig.Towers),
		playerName: cfg.PlayerName,
		font:       font,
	}, nil
}

// Match 返回当前对局
func (a *App) Match() *match.Match {
	return a.match
}

func towerTypeIDs(catalog *config.TowerCatalog) []string {
	ids := make([]string, 0, len(catalog.Towers))
	for _, def := range catalog.Towers {
		ids = append(ids, def.ID)
	}
	return ids
}
