package cmd

import (
	"fmt"
	"time"

	"fdk/internal/version"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build details of fdk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()

		switch OutputFormat() {
		case "json", "yaml":
			return NewOutputWriter().Write(info)
		case "quiet":
			fmt.Println(info.Version)
			return nil
		}

		fmt.Printf("fdk version %s\n", info.Version)
		fmt.Printf("  commit:  %s\n", info.Commit)
		if !info.BuildTime.IsZero() {
			fmt.Printf("  built:   %s\n", info.BuildTime.Format(time.RFC3339))
		}
		fmt.Printf("  go:      %s (%s/%s)\n", info.GoVersion, info.OS, info.Arch)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
