package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// BatchFile is the top-level shape of an HCL run file: one run block
// per game/engine combination the CLI harness's batch mode executes
// in sequence. Grounded on internal/server/config.go's ServerConfig,
// a block-per-entity HCL schema decoded with gohcl.DecodeBody.
type BatchFile struct {
	Runs []RunBlock `hcl:"run,block"`
}

// RunBlock is one labeled run entry: `run "kuhn-baseline" { ... }`.
type RunBlock struct {
	Name        string `hcl:"name,label"`
	Game        string `hcl:"game"`
	Iterations  int    `hcl:"iterations"`
	Seed        int64  `hcl:"seed,optional"`
	Alternating bool   `hcl:"alternating,optional"`
	Checkpoint  string `hcl:"checkpoint,optional"`
}

// ToRunConfig converts a decoded RunBlock into the RunConfig the
// engine-construction code consumes.
func (b RunBlock) ToRunConfig() RunConfig {
	return RunConfig{
		Game:        b.Game,
		Iterations:  b.Iterations,
		Seed:        b.Seed,
		Alternating: b.Alternating,
	}
}

// LoadBatchFile reads and decodes an HCL batch file. A missing file is
// not an error: it is treated as an empty batch, matching
// internal/server/config.go's LoadServerConfig fallback to defaults
// when the file does not exist.
func LoadBatchFile(path string) (*BatchFile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &BatchFile{}, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", path, diags.Error())
	}

	var batch BatchFile
	if diags := gohcl.DecodeBody(file.Body, nil, &batch); diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", path, diags.Error())
	}

	for _, run := range batch.Runs {
		if err := run.ToRunConfig().Validate(); err != nil {
			return nil, fmt.Errorf("config: run %q: %w", run.Name, err)
		}
	}

	return &batch, nil
}
