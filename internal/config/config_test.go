package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ChunkSize != 500 {
		t.Errorf("ChunkSize = %d, want 500", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 80 {
		t.Errorf("ChunkOverlap = %d, want 80", cfg.ChunkOverlap)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.ChunkCollection != "patent_chunks" {
		t.Errorf("ChunkCollection = %q", cfg.ChunkCollection)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "800")
	t.Setenv("CHUNK_OVERLAP", "100")
	t.Setenv("RETRIEVAL_TOP_K", "10")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ChunkSize != 800 || cfg.ChunkOverlap != 100 || cfg.TopK != 10 {
		t.Errorf("overrides not applied: size=%d overlap=%d topK=%d",
			cfg.ChunkSize, cfg.ChunkOverlap, cfg.TopK)
	}
}

func TestLoadConfigRejectsOverlapGESize(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "100")
	t.Setenv("CHUNK_OVERLAP", "100")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when overlap >= size")
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "not a number")
	if got := getEnvInt("SOME_INT", 42); got != 42 {
		t.Errorf("getEnvInt = %d, want default 42", got)
	}
}
