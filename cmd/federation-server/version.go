package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// 构建时通过 -ldflags "-X main.version=... -X main.commit=..." 注入
var (
	version = "dev"
	commit  = "none"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("federation-server %s (%s) %s/%s %s\n",
				version, commit, runtime.GOOS, runtime.GOARCH, runtime.Version())
		},
	}
}
