package game

import "errors"

// 对局命令可能返回的错误，调用方使用 errors.Is 判断
var (
	// ErrConfigNotFound 引用了配置目录中不存在的类型ID
	ErrConfigNotFound = errors.New("config not found")

	// ErrInsufficientFunds 金钱不足，状态未改变
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidPlacement 放置位置不合法（不在建造区、离路径或其他塔太近）
	ErrInvalidPlacement = errors.New("invalid placement")

	// ErrTowerNotFound 指定的防御塔不存在
	ErrTowerNotFound = errors.New("tower not found")

	// ErrWaveInProgress 当前波次尚未结束，不能提前开始下一波
	ErrWaveInProgress = errors.New("wave in progress")

	// ErrMatchOver 对局已结束（失败或胜利）
	ErrMatchOver = errors.New("match is over")
)
