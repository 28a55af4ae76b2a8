package embedded

import (
	"io/fs"
	"testing"
	"testing/fstest"
)

func newTestFS() fstest.MapFS {
	return fstest.MapFS{
		"data/enemies.yaml":     {Data: []byte("enemies: []\n")},
		"data/maps/meadow.yaml": {Data: []byte("id: meadow\n")},
		"data/maps/canyon.yaml": {Data: []byte("id: canyon\n")},
	}
}

// TestNotInitialized 测试未初始化时的调用
func TestNotInitialized(t *testing.T) {
	Init(nil)

	if _, err := Data(); err != errNotInitialized {
		t.Errorf("Data() error = %v, want errNotInitialized", err)
	}
}

func TestData(t *testing.T) {
	Init(newTestFS())

	sub, err := Data()
	if err != nil {
		t.Fatalf("Data() error = %v", err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"根目录文件", "enemies.yaml", "enemies: []\n", false},
		{"子目录文件", "maps/canyon.yaml", "id: canyon\n", false},
		{"保留 data 前缀", "data/enemies.yaml", "", true},
		{"文件不存在", "towers.yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.ReadFile(sub, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	maps, err := fs.Glob(sub, "maps/*.yaml")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(maps) != 2 {
		t.Errorf("Glob() = %v, want 2 maps", maps)
	}
}
