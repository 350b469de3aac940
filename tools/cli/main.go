package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/boyter/gocodewalker"
	"github.com/ghostty-org/l10n-tools/internal/config"
	"github.com/ghostty-org/l10n-tools/internal/logger"
	"github.com/ghostty-org/l10n-tools/pkg/codeowners"
	"github.com/urfave/cli/v2"
)

func stripRoot(root string, path string) string {
	if root == "." {
		return path
	}
	return strings.TrimPrefix(path, strings.TrimSuffix(root, "/")+"/")
}

func main() {
	var repo string
	rootFlag := &cli.StringFlag{
		Name:        "root",
		Aliases:     []string{"r", "repo"},
		Value:       "./",
		Usage:       "Path to local Git repo",
		Destination: &repo,
	}
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print version",
	}
	app := &cli.App{
		Name:    "l10n-cli",
		Usage:   "CLI tool for checking localization ownership in CODEOWNERS",
		Version: "v0.1.0.dev",
		Commands: []*cli.Command{
			{
				Name:        "owner",
				Aliases:     []string{"o"},
				Usage:       "Get the locale team owning one or more files",
				UsageText:   "l10n-cli owner [options] <file1> [file2] [file3]...",
				Description: "Get the locale team owning each file. Files can be given as arguments or piped on stdin.",
				Flags: []cli.Flag{
					rootFlag,
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   string(FormatDefault),
						Usage:   "Output format.  Allowed values are: " + formatNames(),
					},
				},
				Action: func(cCtx *cli.Context) error {
					targets, err := readTargets(cCtx.Args().Slice(), os.Stdin, isStdinPiped())
					if err != nil {
						return err
					}
					format, err := validateFormat(cCtx.String("format"))
					if err != nil {
						return err
					}
					return fileOwner(os.Stdout, repo, targets, format)
				},
			},
			{
				Name:        "unowned",
				Aliases:     []string{"u"},
				Usage:       "List files not owned by any locale team",
				UsageText:   "l10n-cli unowned [options] [target-dir]",
				Description: "Walk the repository and list the files under target-dir (default: the whole repo) that no locale team owns.",
				Flags:       []cli.Flag{rootFlag},
				Action: func(cCtx *cli.Context) error {
					target := ""
					if cCtx.NArg() > 0 {
						target = cCtx.Args().First()
					}
					return unownedFiles(os.Stdout, repo, target)
				},
			},
			{
				Name:        "verify",
				Usage:       "Verify the locale entries of the CODEOWNERS file",
				UsageText:   "l10n-cli verify [options]",
				Description: "Report lines of the CODEOWNERS file that would be skipped or misrouted when requesting localization reviews.",
				Flags: []cli.Flag{
					rootFlag,
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Log the parsed locale entries",
					},
				},
				Action: func(cCtx *cli.Context) error {
					return verifyCodeowners(os.Stderr, repo, cCtx.Bool("verbose"))
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func checkRepo(repo string) error {
	if repoStat, err := os.Lstat(repo); err != nil || !repoStat.IsDir() {
		return fmt.Errorf("root is not a directory: %s", repo)
	}
	if gitStat, err := os.Stat(filepath.Join(repo, ".git")); err != nil || !gitStat.IsDir() {
		return fmt.Errorf("root is not a Git repository: %s", repo)
	}
	return nil
}

// readCodeowners reads the CODEOWNERS file configured for the repo
func readCodeowners(repo string) (string, *config.Config, error) {
	conf, err := config.ReadConfig(repo)
	if err != nil {
		return "", nil, fmt.Errorf("error reading %s: %s", config.FileName, err)
	}
	content, err := os.ReadFile(filepath.Join(repo, conf.CodeownersPath))
	if err != nil {
		return "", nil, fmt.Errorf("error reading codeowners file: %s", err)
	}
	return string(content), conf, nil
}

func loadRules(repo string) (codeowners.Rules, error) {
	content, conf, err := readCodeowners(repo)
	if err != nil {
		return codeowners.Rules{}, err
	}
	return codeowners.Parse(content, conf.Org, slog.New(slog.DiscardHandler)), nil
}

func fileOwner(w io.Writer, repo string, targets []string, format OutputFormat) error {
	if err := checkRepo(repo); err != nil {
		return err
	}
	for _, target := range targets {
		if target == "" {
			return fmt.Errorf("empty target file path is not allowed")
		}
	}

	rules, err := loadRules(repo)
	if err != nil {
		return err
	}
	return format.writeOwners(w, rules, targets)
}

func unownedFiles(w io.Writer, repo string, target string) error {
	if err := checkRepo(repo); err != nil {
		return err
	}
	rules, err := loadRules(repo)
	if err != nil {
		return err
	}

	fileListQueue := make(chan *gocodewalker.File, 100)

	walker := gocodewalker.NewFileWalker(repo, fileListQueue)
	walker.IncludeHidden = true
	walker.ExcludeDirectory = []string{".git"}

	errChan := make(chan error, 1)

	go func() {
		err := walker.Start()
		errChan <- err
		close(errChan)
	}()

	unowned := make([]string, 0)
	for file := range fileListQueue {
		path := filepath.ToSlash(stripRoot(repo, file.Location))
		if target != "" && !strings.HasPrefix(path, target) {
			continue
		}
		if _, ok := rules.OwnerOf(path); !ok {
			unowned = append(unowned, path)
		}
	}

	if err := <-errChan; err != nil {
		return fmt.Errorf("error walking repo: %s", err)
	}

	slices.Sort(unowned)
	if len(unowned) > 0 {
		_, _ = fmt.Fprintln(w, strings.Join(unowned, "\n"))
	}
	return nil
}

func verifyCodeowners(w io.Writer, repo string, verbose bool) error {
	if err := checkRepo(repo); err != nil {
		return err
	}
	content, conf, err := readCodeowners(repo)
	if err != nil {
		return err
	}
	if verbose {
		rules := codeowners.Parse(content, conf.Org, logger.New(w, slog.LevelDebug))
		_, _ = fmt.Fprintf(w, "%d locale entries\n", rules.Len())
	}

	problems := codeowners.Verify(content, conf.Org)
	if len(problems) > 0 {
		return fmt.Errorf("\n%s", strings.Join(problems, "\n"))
	}
	return nil
}
