package commands

import (
	"fmt"
	"strings"

	"github.com/jamesprial/marketplace-mcp/internal/upload"
	"github.com/spf13/cobra"
)

func uploadCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <target> <file>",
		Short: "Upload a file to a backend upload endpoint",
		Long:  "Targets: " + strings.Join(upload.TargetPaths(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, ok := upload.TargetByPath(args[0])
			if !ok {
				return fmt.Errorf("unknown upload target %q", args[0])
			}
			file, closer, err := upload.Open(args[1])
			if err != nil {
				return err
			}
			defer closer.Close()

			res, err := st.app.Uploader.Upload(cmd.Context(), target, file, st.token())
			if err != nil {
				return err
			}
			return st.print(res)
		},
	}
}
