package cmd

import (
	"fmt"

	"github.com/Shubham1700/update-headers/cmd/run"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type VersionInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

func NewRootCmd(versionInfo VersionInfo) *cobra.Command {
	// Load .env if present so UPDATE_HEADERS_* overrides apply
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "update-headers",
		Short:   "Change reporter and header annotator for Git ranges",
		Long:    "update-headers compares two commit references within one source folder, writes a JSON change report, and refreshes the annotation headers of modified files",
		Version: formatVersion(versionInfo),
	}

	rootCmd.SetVersionTemplate("{{.Version}}")

	rootCmd.AddCommand(
		run.NewRunCmd(),
	)

	rootCmd.Flags().BoolP("version", "v", false, "Print version")

	return rootCmd
}

func formatVersion(versionInfo VersionInfo) string {
	return fmt.Sprintf("update-headers v%s\nBuild Date: %s\nGit Commit: %s",
		versionInfo.Version,
		versionInfo.BuildDate,
		versionInfo.GitCommit)
}
