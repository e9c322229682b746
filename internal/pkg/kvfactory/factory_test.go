package kvfactory

import (
	"testing"

	"pomelo/internal/config"
)

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StoreConfig
		wantErr bool
	}{
		{
			name: "valid memory store config",
			cfg: &config.StoreConfig{
				Type:   "memory",
				Memory: &config.MemoryConfig{QuotaBytes: 1024},
			},
			wantErr: false,
		},
		{
			name: "memory store without explicit config",
			cfg: &config.StoreConfig{
				Type: "memory",
			},
			wantErr: false,
		},
		{
			name: "valid file store config",
			cfg: &config.StoreConfig{
				Type: "file",
				File: &config.FileConfig{
					BasePath:   t.TempDir(),
					QuotaBytes: 1024,
				},
			},
			wantErr: false,
		},
		{
			name: "missing file config",
			cfg: &config.StoreConfig{
				Type: "file",
				File: nil,
			},
			wantErr: true,
		},
		{
			name: "missing redis config",
			cfg: &config.StoreConfig{
				Type:  "redis",
				Redis: nil,
			},
			wantErr: true,
		},
		{
			name: "unsupported store type",
			cfg: &config.StoreConfig{
				Type: "invalid",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.cfg)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewStore() expected error, got nil")
				}
				if store != nil {
					t.Errorf("NewStore() expected nil store, got %v", store)
				}
				return
			}

			if err != nil {
				t.Errorf("NewStore() unexpected error: %v", err)
				return
			}
			if store == nil {
				t.Errorf("NewStore() expected store instance, got nil")
				return
			}

			// 创建出来的存储可直接读写
			if err := store.Set("probe", "ok"); err != nil {
				t.Errorf("Set() unexpected error: %v", err)
			}
			if got, ok := store.Get("probe"); !ok || got != "ok" {
				t.Errorf("Get() = (%q, %v), want (\"ok\", true)", got, ok)
			}
			store.Close()
		})
	}
}
