package main

import (
	"flag"
	"log"

	"github.com/gonewx/tdsim/pkg/app"
	"github.com/gonewx/tdsim/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	mapID      = flag.String("map", "", "地图ID（默认使用第一张地图）")
	seed       = flag.Int64("seed", 0, "随机种子（0 表示使用当前时间）")
	playerName = flag.String("player", "player", "排行榜上的玩家名")
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
)

func main() {
	flag.Parse()

	// 初始化嵌入配置
	embedded.Init(dataFS)

	viewer, err := app.NewApp(app.Config{
		Verbose:     *verbose,
		MapID:       *mapID,
		Seed:        *seed,
		PlayerName:  *playerName,
		StorageName: "tdsim",
		Audio:       true,
	})
	if err != nil {
		log.Fatal(err)
	}

	battlefield := viewer.Match().Map()
	ebiten.SetWindowSize(int(battlefield.Width), int(battlefield.Height))
	ebiten.SetWindowTitle("Tower Defense - " + battlefield.Name)

	// 启动游戏循环
	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
