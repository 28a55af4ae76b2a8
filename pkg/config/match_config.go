package config

import (
	"fmt"
	"io/fs"
	"log"
	"path"
	"path/filepath"
	"sort"
)

// 配置目录内的文件布局
const (
	EnemiesFile      = "enemies.yaml"
	TowersFile       = "towers.yaml"
	GameSettingsFile = "game_settings.yaml"
	MapsDir          = "maps"
)

// MatchConfig 一场对局所需的全部静态配置
type MatchConfig struct {
	Enemies  *EnemyCatalog
	Towers   *TowerCatalog
	Settings *GameSettingsConfig
	Maps     map[string]*MapConfig
}

// Map 按ID查找地图
func (c *MatchConfig) Map(id string) (*MapConfig, bool) {
	m, ok := c.Maps[id]
	return m, ok
}

// MapIDs 返回按字母排序的地图ID列表
func (c *MatchConfig) MapIDs() []string {
	ids := make([]string, 0, len(c.Maps))
	for id := range c.Maps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadMatchConfigDir 从磁盘目录加载配置
func LoadMatchConfigDir(dir string) (*MatchConfig, error) {
	enemies, err := LoadEnemyCatalog(filepath.Join(dir, EnemiesFile))
	if err != nil {
		return nil, err
	}
	towers, err := LoadTowerCatalog(filepath.Join(dir, TowersFile))
	if err != nil {
		return nil, err
	}
	settings, err := LoadGameSettings(filepath.Join(dir, GameSettingsFile))
	if err != nil {
		return nil, err
	}

	mapFiles, err := filepath.Glob(filepath.Join(dir, MapsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list map files: %w", err)
	}
	maps := make(map[string]*MapConfig, len(mapFiles))
	for _, file := range mapFiles {
		m, err := LoadMapConfig(file)
		if err != nil {
			return nil, err
		}
		if _, dup := maps[m.ID]; dup {
			return nil, fmt.Errorf("duplicate map id %q in %s", m.ID, file)
		}
		maps[m.ID] = m
	}

	return newMatchConfig(enemies, towers, settings, maps)
}

// LoadMatchConfigFS 从文件系统（例如嵌入的 data 目录）加载配置
func LoadMatchConfigFS(fsys fs.FS) (*MatchConfig, error) {
	read := func(name string) ([]byte, error) {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, nil
	}

	data, err := read(EnemiesFile)
	if err != nil {
		return nil, err
	}
	enemies, err := ParseEnemyCatalog(data)
	if err != nil {
		return nil, err
	}

	if data, err = read(TowersFile); err != nil {
		return nil, err
	}
	towers, err := ParseTowerCatalog(data)
	if err != nil {
		return nil, err
	}

	if data, err = read(GameSettingsFile); err != nil {
		return nil, err
	}
	settings, err := ParseGameSettings(data)
	if err != nil {
		return nil, err
	}

	mapFiles, err := fs.Glob(fsys, path.Join(MapsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list map files: %w", err)
	}
	maps := make(map[string]*MapConfig, len(mapFiles))
	for _, file := range mapFiles {
		if data, err = read(file); err != nil {
			return nil, err
		}
		m, err := ParseMapConfig(data)
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", file, err)
		}
		if _, dup := maps[m.ID]; dup {
			return nil, fmt.Errorf("duplicate map id %q in %s", m.ID, file)
		}
		maps[m.ID] = m
	}

	return newMatchConfig(enemies, towers, settings, maps)
}

func newMatchConfig(enemies *EnemyCatalog, towers *TowerCatalog, settings *GameSettingsConfig, maps map[string]*MapConfig) (*MatchConfig, error) {
	cfg := &MatchConfig{
		Enemies:  enemies,
		Towers:   towers,
		Settings: settings,
		Maps:     maps,
	}
	if err := validateMatchConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid match config: %w", err)
	}
	return cfg, nil
}

// validateMatchConfig 交叉校验各配置文件之间的引用
func validateMatchConfig(cfg *MatchConfig) error {
	if len(cfg.Maps) == 0 {
		return fmt.Errorf("at least one map is required")
	}

	gs := cfg.Settings.GameSettings
	if _, ok := cfg.Enemies.Get(gs.BaseEnemyType); !ok {
		return fmt.Errorf("baseEnemyType %q is not in the enemy catalog", gs.BaseEnemyType)
	}
	for _, tier := range gs.EnemyTiers {
		if _, ok := cfg.Enemies.Get(tier.Type); !ok {
			return fmt.Errorf("enemy tier %q is not in the enemy catalog", tier.Type)
		}
	}

	// 缺失的 boss 类型不是致命错误：生成时会跳过并记录日志
	for tier := 1; tier <= gs.MaxBossTier; tier++ {
		id := fmt.Sprintf("%s%d", gs.BossTypePrefix, tier)
		if _, ok := cfg.Enemies.Get(id); !ok {
			log.Printf("[Config] Warning: boss type %q is not in the enemy catalog", id)
		}
	}

	return nil
}
