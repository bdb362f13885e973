package fileshaker

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_CreatesDefaults(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), ".fshaker")

	cfg, err := LoadConfig(configDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(configDir, "config")); err != nil {
		t.Errorf("Expected config file to be created: %v", err)
	}

	all := cfg.GetAllConfig()
	if all.Hash.Default != "sha256" {
		t.Errorf("Expected default hash sha256, got %s", all.Hash.Default)
	}
	if all.Output.Format != "human" {
		t.Errorf("Expected default format human, got %s", all.Output.Format)
	}
	if all.Performance.HashWorkers != DefaultHashWorkers {
		t.Errorf("Expected %d hash workers, got %d", DefaultHashWorkers, all.Performance.HashWorkers)
	}
	if all.Performance.PhashWorkers != DefaultPhashWorkers {
		t.Errorf("Expected %d phash workers, got %d", DefaultPhashWorkers, all.Performance.PhashWorkers)
	}
	if all.Phash.Threshold != DefaultHammingThreshold {
		t.Errorf("Expected threshold %d, got %d", DefaultHammingThreshold, all.Phash.Threshold)
	}
}

func TestLoadConfig_ReadsExisting(t *testing.T) {
	configDir := t.TempDir()
	writeTestFile(t, configDir, "config", "[phash]\nthreshold = 3\n\n[performance]\nhash_workers = 8\n")

	cfg, err := LoadConfig(configDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if got := cfg.GetPhashConfig().Threshold; got != 3 {
		t.Errorf("Expected threshold 3, got %d", got)
	}
	if got := cfg.GetPerformanceConfig().HashWorkers; got != 8 {
		t.Errorf("Expected 8 hash workers, got %d", got)
	}
	// Missing sections fall back to defaults
	if got := cfg.GetHashConfig().Default; got != "sha256" {
		t.Errorf("Expected fallback hash sha256, got %s", got)
	}
}

func TestConfig_ApplyOverrides(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ".fshaker"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	overrides := []string{"default:sha512", "threshold:5", "format:json"}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		t.Fatalf("ApplyOverrides failed: %v", err)
	}

	if got := cfg.GetHashConfig().Default; got != "sha512" {
		t.Errorf("Expected sha512 after override, got %s", got)
	}
	if got := cfg.GetPhashConfig().Threshold; got != 5 {
		t.Errorf("Expected threshold 5 after override, got %d", got)
	}
	if got := cfg.GetOutputConfig().Format; got != "json" {
		t.Errorf("Expected format json after override, got %s", got)
	}
}

func TestConfig_ApplyOverrides_Invalid(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ".fshaker"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if err := cfg.ApplyOverrides([]string{"no-colon-here"}); err == nil {
		t.Error("Expected error for malformed override")
	}
	if err := cfg.ApplyOverrides([]string{"bogus:value"}); err == nil {
		t.Error("Expected error for unknown override key")
	}
}

func TestValidators(t *testing.T) {
	if err := ValidateHashAlgorithm("sha256"); err != nil {
		t.Errorf("sha256 should validate: %v", err)
	}
	if err := ValidateHashAlgorithm("crc32"); err == nil {
		t.Error("crc32 should not validate")
	}
	if err := ValidateOutputFormat("json"); err != nil {
		t.Errorf("json should validate: %v", err)
	}
	if err := ValidateOutputFormat("xml"); err == nil {
		t.Error("xml should not validate")
	}
	if err := ValidateVerboseLevel(4); err == nil {
		t.Error("verbose level 4 should not validate")
	}
	if err := ValidateWorkers(0); err == nil {
		t.Error("0 workers should not validate")
	}
	if err := ValidateWorkers(65); err == nil {
		t.Error("65 workers should not validate")
	}
	if err := ValidateThreshold(FingerprintWidth + 1); err == nil {
		t.Error("threshold beyond fingerprint width should not validate")
	}
	if err := ValidateThreshold(0); err != nil {
		t.Errorf("threshold 0 should validate: %v", err)
	}
}
