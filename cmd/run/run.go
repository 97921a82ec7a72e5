package run

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Shubham1700/update-headers/internal/cli"
	"github.com/Shubham1700/update-headers/internal/config"
	"github.com/Shubham1700/update-headers/internal/git"
	"github.com/Shubham1700/update-headers/internal/header"
	"github.com/Shubham1700/update-headers/internal/history"
	"github.com/Shubham1700/update-headers/internal/logger"
	"github.com/Shubham1700/update-headers/internal/report"
	"github.com/dustin/go-humanize"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// maxRepoDepth bounds the upward search for the repository root.
const maxRepoDepth = 10

const defaultFolder = "src"

func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <oldRef> <newRef> [folder]",
		Short: "Compare two refs and refresh source file headers",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 || len(args) > 3 {
				return fmt.Errorf("run requires an old ref and a new ref\n\nUsage: %s", cmd.UsageString())
			}
			return nil
		},
	}

	// Define run command flags
	cmd.Flags().StringP("output", "o", "", "Change report path, relative to the repository root (default changes.json)")
	cmd.Flags().String("history", "", "Annotation ledger path, relative to the repository root (default history.json)")
	cmd.Flags().String("config", "", "Explicit config file path")
	cmd.Flags().Bool("dry-run", false, "Classify and report without touching files")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	cmd.Flags().Bool("debug", false, "Enable debug output")
	cmd.Flags().Bool("no-color", false, "Disable colored output")

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		groups := []cli.FlagGroup{
			{Name: "Output options", Flags: namedFlags(c, "output", "history", "dry-run")},
			{Name: "General options", Flags: namedFlags(c, "config", "verbose", "debug", "no-color")},
		}
		fmt.Fprint(c.OutOrStderr(), cli.FormatSubcommandUsage(c, "<oldRef> <newRef> [folder]", groups))
		return nil
	})

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return fmt.Errorf("unknown option %s\n\n%s", cli.StripInvalidFlag(err), c.UsageString())
	})

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		oldRef, newRef := args[0], args[1]
		folder := defaultFolder
		if len(args) == 3 {
			folder = args[2]
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		debug, _ := cmd.Flags().GetBool("debug")
		noColor, _ := cmd.Flags().GetBool("no-color")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		outputFlag, _ := cmd.Flags().GetString("output")
		historyFlag, _ := cmd.Flags().GetString("history")
		configFlag, _ := cmd.Flags().GetString("config")

		logger.GlobalLogger = logger.New(verbose, debug, !noColor)

		cfg, err := config.Load(configFlag)
		if err != nil {
			return err
		}
		if outputFlag != "" {
			cfg.Report.Output = outputFlag
		}
		if historyFlag != "" {
			cfg.History.Path = historyFlag
		}

		return execute(cfg, oldRef, newRef, folder, dryRun)
	}

	return cmd
}

func execute(cfg *config.Config, oldRef, newRef, folder string, dryRun bool) error {
	repo, err := git.OpenRepository(".", maxRepoDepth)
	if err != nil {
		return err
	}

	oldCommit, err := repo.ResolveRef(oldRef)
	if err != nil {
		return err
	}

	newCommit, err := repo.ResolveRef(newRef)
	if err != nil {
		return err
	}

	logger.GlobalLogger.Verbosef("Comparing %s..%s under %q", oldRef, newRef, folder)

	changes, err := repo.ChangesBetween(oldCommit, newCommit, folder)
	if err != nil {
		return err
	}
	changes = filterByExtension(changes, cfg.Header.Extensions)

	style := header.Style{
		CommentLeader:  cfg.Header.CommentLeader,
		ChangeIDPrefix: cfg.Header.ChangeIDPrefix,
	}

	ledger, err := history.Load(repoRelative(repo, cfg.History.Path))
	if err != nil {
		return err
	}

	if err := accumulateAnnotations(repo, ledger, style, cfg, oldCommit, newCommit, folder); err != nil {
		return err
	}

	headers, err := refreshHeaders(repo, ledger, style, newCommit, changes, dryRun)
	if err != nil {
		return err
	}

	rep := report.Build(changes, headers)

	reportPath := repoRelative(repo, cfg.Report.Output)

	written, err := rep.Write(reportPath)
	if err != nil {
		return err
	}

	logger.GlobalLogger.Successf("Wrote change report to %s (%s)",
		reportPath, humanize.Bytes(uint64(written)))

	if dryRun {
		logger.GlobalLogger.Verbosef("Dry run: ledger and file headers left untouched")
		return nil
	}

	if err := ledger.Save(); err != nil {
		return err
	}

	missing := ledger.MissingAuthors(style)
	if len(missing) > 0 {
		missingPath := repoRelative(repo, cfg.History.MissingAuthors)
		if err := history.SaveMissingAuthors(missingPath, missing); err != nil {
			return err
		}
		logger.GlobalLogger.Warnf("Found annotation lines without authors in %d file(s), see %s",
			len(missing), cfg.History.MissingAuthors)
	} else {
		logger.GlobalLogger.Verbosef("No missing author annotations found")
	}

	return nil
}

// accumulateAnnotations walks every commit in the range, oldest first, and
// folds its annotation line into the ledger the way each touched file
// requires: append for edits, move for renames, drop for deletions.
func accumulateAnnotations(repo *git.Repository, ledger *history.Ledger, style header.Style,
	cfg *config.Config, oldCommit, newCommit *object.Commit, folder string) error {

	commits, err := repo.CommitsBetween(oldCommit, newCommit, folder)
	if err != nil {
		return err
	}

	for _, c := range commits {
		details := git.Details(c)

		changeID, message, err := style.ParseCommitMessage(details.Message)
		if err != nil {
			logger.GlobalLogger.Warnf("Skipping commit %s: %v", shortHash(details.Hash), err)
			continue
		}

		line := style.Render(header.Annotation{
			Date:     details.Date,
			Author:   details.Author,
			ChangeID: changeID,
			Message:  message,
		})

		commitChanges, err := repo.CommitChanges(c, folder)
		if err != nil {
			return err
		}

		for _, cc := range filterByExtension(commitChanges, cfg.Header.Extensions) {
			switch cc.Kind {
			case git.ChangeModified:
				ledger.Append(cc.Path, line, changeID)
			case git.ChangeRenamed:
				if ledger.Rename(cc.OldPath, cc.Path) {
					logger.GlobalLogger.PrintChange("Renamed", cc.Path, cc.OldPath)
				}
				if cc.ContentChanged {
					ledger.Append(cc.Path, line, changeID)
				}
			case git.ChangeDeleted:
				if ledger.Delete(cc.Path) {
					logger.GlobalLogger.PrintChange("Deleted", cc.Path, "")
				}
			}
		}
	}

	return nil
}

// refreshHeaders upserts the ledger's annotation block into every modified
// file, reading content as committed at the new ref and persisting the
// result to the working tree. It returns the block each path received.
func refreshHeaders(repo *git.Repository, ledger *history.Ledger, style header.Style,
	newCommit *object.Commit, changes []git.Change, dryRun bool) (map[string]string, error) {

	headers := make(map[string]string)

	for _, c := range changes {
		if !c.ContentChanged {
			continue
		}

		lines := ledger.Lines(c.Path)
		if len(lines) == 0 {
			continue
		}

		headers[c.Path] = strings.Join(lines, "\n")

		if dryRun {
			continue
		}

		content, err := repo.FileAt(newCommit, c.Path)
		if err != nil {
			return nil, err
		}

		if err := repo.WriteWorkingFile(c.Path, style.Apply(content, lines)); err != nil {
			return nil, err
		}

		logger.GlobalLogger.PrintChange("Updated", c.Path, "")
	}

	return headers, nil
}

// filterByExtension keeps only changes whose path carries one of the
// configured extensions. Renames are judged by their new path.
func filterByExtension(changes []git.Change, extensions []string) []git.Change {
	kept := changes[:0]
	for _, c := range changes {
		if hasAnyExtension(c.Path, extensions) {
			kept = append(kept, c)
		}
	}
	return kept
}

func hasAnyExtension(path string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func repoRelative(repo *git.Repository, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(repo.Path(), path)
}

func namedFlags(cmd *cobra.Command, names ...string) []*pflag.Flag {
	var flags []*pflag.Flag
	for _, name := range names {
		if f := cmd.Flags().Lookup(name); f != nil {
			flags = append(flags, f)
		}
	}
	return flags
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
