package cmd

import (
	"fmt"
	"runtime"

	"github.com/haierkeys/fast-file-share-service/internal/app"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print out version info and exit. // 打印版本信息并退出。",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s v%s (Git: %s) BuildTime: %s %s %s/%s\n",
			app.Name, app.Version, app.GitTag, app.BuildTime,
			runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
