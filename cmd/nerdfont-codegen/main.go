package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ghostty-org/l10n-tools/internal/logger"
	"github.com/ghostty-org/l10n-tools/pkg/nerdfont"
	"github.com/urfave/cli/v2"
)

const (
	defaultPatcher = "vendor/nerd-fonts/font-patcher.py"
	defaultOut     = "src/font/nerd_font_attributes.zig"
)

func newCommand() *cli.App {
	return &cli.App{
		Name:      "nerdfont-codegen",
		Usage:     "Generate the Zig glyph constraint table from the Nerd Fonts patcher",
		UsageText: "nerdfont-codegen [--root DIR] [--patcher PATH] [--out PATH]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "root",
				Value: ".",
				Usage: "Project root the other paths are relative to",
			},
			&cli.StringFlag{
				Name:  "patcher",
				Value: defaultPatcher,
				Usage: "Path of font-patcher.py",
			},
			&cli.StringFlag{
				Name:  "out",
				Value: defaultOut,
				Usage: "Path of the generated Zig file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log every extracted patch set",
			},
		},
		Action: func(cCtx *cli.Context) error {
			log := logger.New(os.Stderr, logger.Level(cCtx.Bool("verbose"), false))
			root := cCtx.String("root")
			return generate(
				filepath.Join(root, cCtx.String("patcher")),
				filepath.Join(root, cCtx.String("out")),
				log,
			)
		},
	}
}

func generate(patcherPath, outPath string, log *slog.Logger) error {
	source, err := os.ReadFile(patcherPath)
	if err != nil {
		return fmt.Errorf("error reading patcher: %w", err)
	}

	patchSets, err := nerdfont.ExtractPatchSets(string(source), log)
	if err != nil {
		return fmt.Errorf("error extracting patch sets from %s: %w", patcherPath, err)
	}
	if len(patchSets) == 0 {
		log.Warn("No patch sets found", slog.String("patcher", patcherPath))
	}

	out := &bytes.Buffer{}
	if err := nerdfont.Generate(out, patchSets); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", outPath, err)
	}

	log.Info("Generated glyph constraints",
		slog.String("out", outPath),
		slog.Int("patch_sets", len(patchSets)))
	return nil
}

func main() {
	err := newCommand().Run(os.Args)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
