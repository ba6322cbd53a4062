package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/svanholm/plotpin/pkg/errors"
	"github.com/svanholm/plotpin/pkg/scene"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Strategy != StrategyDirectional {
		t.Errorf("Strategy = %q, want %q", cfg.Strategy, StrategyDirectional)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, want nil", err)
	}

	w, h := cfg.SizeFor(scene.CategoryMeasurement)
	if w != 2.5 || h != 1.2 {
		t.Errorf("SizeFor(measurement) = %vx%v, want 2.5x1.2", w, h)
	}

	// Unknown category falls back to the device size.
	w, h = cfg.SizeFor("billboard")
	if w != 2.0 || h != 0.8 {
		t.Errorf("SizeFor(unknown) = %vx%v, want 2x0.8", w, h)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Margins.Border != 0.3 {
		t.Errorf("Margins.Border = %v, want 0.3", cfg.Margins.Border)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plotpin.toml")
	data := `
strategy = "force"

[margins]
border = 0.5
collision = 0.2

[sizes.device]
width = 3.0
height = 1.0

[refiner]
iterations = 80
damping = 0.9
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Strategy != StrategyForce {
		t.Errorf("Strategy = %q, want force", cfg.Strategy)
	}
	if cfg.Margins.Border != 0.5 || cfg.Margins.Collision != 0.2 {
		t.Errorf("Margins = %+v", cfg.Margins)
	}
	if w, h := cfg.SizeFor(scene.CategoryDevice); w != 3.0 || h != 1.0 {
		t.Errorf("SizeFor(device) = %vx%v, want 3x1", w, h)
	}
	if cfg.Refiner.Iterations != 80 {
		t.Errorf("Refiner.Iterations = %d, want 80", cfg.Refiner.Iterations)
	}
	// Untouched values keep defaults.
	if cfg.Refiner.MaxStep != 0.5 {
		t.Errorf("Refiner.MaxStep = %v, want default 0.5", cfg.Refiner.MaxStep)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr errors.Code
	}{
		{"bad strategy", func(c *Config) { c.Strategy = "magic" }, errors.ErrCodeInvalidStrategy},
		{"negative margin", func(c *Config) { c.Margins.Border = -1 }, errors.ErrCodeInvalidConfig},
		{"zero-area size", func(c *Config) { c.Sizes["device"] = Size{Width: 0, Height: 1} }, errors.ErrCodeInvalidConfig},
		{"zero iterations", func(c *Config) { c.Refiner.Iterations = 0 }, errors.ErrCodeInvalidConfig},
		{"damping above one", func(c *Config) { c.Refiner.Damping = 1.5 }, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.wantErr)
			}
		})
	}
}
