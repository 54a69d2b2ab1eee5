package delvegen

import (
	"bytes"
	"context"
	"flag"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samdwyer/delvegen/internal/gamedata"
)

func TestParseConfigDefaults(t *testing.T) {
	flags := flag.NewFlagSet("delvegen", flag.ContinueOnError)
	cfg, err := ParseConfig(flags, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Mode != "hub" {
		t.Errorf("expected hub mode, got %q", cfg.Mode)
	}
	if cfg.Output != OutputView {
		t.Errorf("expected view output, got %q", cfg.Output)
	}
	if cfg.Color != "auto" || !cfg.Legend {
		t.Errorf("unexpected dump defaults: color=%q legend=%v", cfg.Color, cfg.Legend)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("DELVEGEN_SEED", "7")
	t.Setenv("DELVEGEN_MODE", "graph")

	flags := flag.NewFlagSet("delvegen", flag.ContinueOnError)
	cfg, err := ParseConfig(flags, []string{"-seed", "99", "-output", "dump"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Seed != 99 {
		t.Errorf("expected flag seed 99, got %d", cfg.Seed)
	}
	if cfg.Mode != "graph" {
		t.Errorf("expected env mode graph, got %q", cfg.Mode)
	}
	if cfg.Output != OutputDump {
		t.Errorf("expected dump output, got %q", cfg.Output)
	}
}

func TestParseConfigRejectsUnknownOutput(t *testing.T) {
	flags := flag.NewFlagSet("delvegen", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	if _, err := ParseConfig(flags, []string{"-output", "png"}); err == nil {
		t.Fatal("expected error for unknown output")
	}
	flags = flag.NewFlagSet("delvegen", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	if _, err := ParseConfig(flags, []string{"-color", "sometimes"}); err == nil {
		t.Fatal("expected error for unknown color mode")
	}
}

func dumpConfig(t *testing.T, args ...string) Config {
	t.Helper()
	flags := flag.NewFlagSet("delvegen", flag.ContinueOnError)
	cfg, err := ParseConfig(flags, append([]string{"-output", "dump", "-seed", "42"}, args...))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func TestRunDump(t *testing.T) {
	cfg := dumpConfig(t, "-legend=false", "-mode", "uniform", "-width", "20", "-height", "6")

	var out, errOut bytes.Buffer
	if err := Run(context.Background(), cfg, &out, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(lines))
	}
	if strings.Contains(out.String(), "\x1b[") {
		t.Error("buffer output should not be coloured in auto mode")
	}
	if !strings.Contains(errOut.String(), "Dungeon generated") {
		t.Errorf("expected summary log, got %q", errOut.String())
	}
}

func TestRunLogsChosenSeed(t *testing.T) {
	cfg := dumpConfig(t, "-seed", "0", "-mode", "uniform", "-width", "8", "-height", "4")

	var errOut bytes.Buffer
	if err := Run(context.Background(), cfg, io.Discard, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}

	logs := errOut.String()
	i := strings.Index(logs, "seed=")
	if i < 0 {
		t.Fatalf("expected the seed in the info logs, got %q", logs)
	}
	if strings.HasPrefix(logs[i:], "seed=0 ") {
		t.Errorf("expected a generated seed, got %q", logs)
	}
}

func TestParseConfigTemplates(t *testing.T) {
	t.Setenv("DELVEGEN_TEMPLATES", "crypt,well")

	flags := flag.NewFlagSet("delvegen", flag.ContinueOnError)
	cfg, err := ParseConfig(flags, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if strings.Join(cfg.Templates, ",") != "crypt,well" {
		t.Errorf("env templates = %v", cfg.Templates)
	}

	flags = flag.NewFlagSet("delvegen", flag.ContinueOnError)
	cfg, err = ParseConfig(flags, []string{"-templates", " shrine, ,grotto "})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if strings.Join(cfg.Templates, ",") != "shrine,grotto" {
		t.Errorf("flag templates = %v", cfg.Templates)
	}
}

func TestRunRejectsUnknownTemplate(t *testing.T) {
	cfg := dumpConfig(t, "-templates", "crypt,ballroom")
	err := Run(context.Background(), cfg, io.Discard, nil)
	if err == nil || !strings.Contains(err.Error(), "ballroom") {
		t.Fatalf("expected unknown template error, got %v", err)
	}
}

func TestRunDumpIsDeterministic(t *testing.T) {
	cfg := dumpConfig(t, "-mode", "hub")

	var first, second bytes.Buffer
	if err := Run(context.Background(), cfg, &first, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := Run(context.Background(), cfg, &second, nil); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.String() != second.String() {
		t.Error("same seed produced different dumps")
	}
}

func TestRunOverlay(t *testing.T) {
	cfg := dumpConfig(t, "-output", "overlay", "-mode", "uniform", "-width", "12", "-height", "4")

	var out bytes.Buffer
	if err := Run(context.Background(), cfg, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	rows := strings.Split(out.String(), "\n")
	if len(rows) < 4 || len(rows[0]) != 12 {
		t.Fatalf("unexpected overlay:\n%s", out.String())
	}
}

func TestRunLoadsDataDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"tiles.json", "biomes.json", "corridor.json", "templates.json"} {
		data, err := fs.ReadFile(gamedata.FS(), name)
		if err != nil {
			t.Fatalf("read embedded %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	cfg := dumpConfig(t, "-data", dir, "-mode", "graph")
	if err := Run(context.Background(), cfg, io.Discard, nil); err != nil {
		t.Fatalf("run with data dir: %v", err)
	}

	cfg = dumpConfig(t, "-data", t.TempDir())
	if err := Run(context.Background(), cfg, io.Discard, nil); err == nil {
		t.Fatal("expected error for a data dir without content")
	}
}

func TestColored(t *testing.T) {
	var buf bytes.Buffer
	if !colored("always", &buf) {
		t.Error("always should colour")
	}
	if colored("never", os.Stdout) {
		t.Error("never should not colour")
	}
	if colored("auto", &buf) {
		t.Error("auto should not colour a buffer")
	}
}
