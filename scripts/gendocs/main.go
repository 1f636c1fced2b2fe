// Package main generates markdown reference documentation from the sqlmatch
// command tree, rule registry and configuration defaults.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=config -outdir=docs/concepts
//	go run ./scripts/gendocs -gen=lint -outdir=docs/rules
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, config, lint, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

// generators maps a -gen value to its generator and default output dir.
var generators = map[string]struct {
	run    func(outDir string) error
	subdir string
}{
	"cli":    {generateCLIDocs, filepath.Join("docs", "cli")},
	"config": {generateConfigDocs, filepath.Join("docs", "concepts")},
	"lint":   {generateLintDocs, filepath.Join("docs", "rules")},
}

func main() {
	flag.Parse()

	names := []string{*genFlag}
	if *genFlag == "all" {
		names = []string{"cli", "config", "lint"}
	} else if _, ok := generators[*genFlag]; !ok {
		log.Fatalf("unknown -gen value: %s (use: cli, config, lint, all)", *genFlag)
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	for _, name := range names {
		g := generators[name]
		outDir := *outDirFlag
		if outDir == "" || *genFlag == "all" {
			outDir = filepath.Join(projectRoot, g.subdir)
		}
		if err := g.run(outDir); err != nil {
			log.Fatalf("failed to generate %s docs: %v", name, err)
		}
	}

	log.Println("Done!")
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
