// Package embedded 提供嵌入配置的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的配置。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
)

// DataDir 嵌入配置的根目录
const DataDir = "data"

var (
	dataFS      fs.FS
	initialized bool
)

var errNotInitialized = errors.New("embedded package not initialized, call Init() first")

// Init 设置嵌入的文件系统
// 必须在 main() 开始时、任何配置加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// Data 返回以 data/ 为根的文件系统，可直接交给 config.LoadMatchConfigFS
func Data() (fs.FS, error) {
	if !initialized {
		return nil, errNotInitialized
	}
	sub, err := fs.Sub(dataFS, DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", DataDir, err)
	}
	return sub, nil
}
