package cli

import (
	"fmt"

	"github.com/akontos/hackmate/internal/config"
	"github.com/akontos/hackmate/internal/ingest"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	indexDocsDir      string
	indexProjectsFile string
	indexWatch        bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index documentation and past projects for search",
	Long: `Ingest markdown documentation and a JSON file of past hackathon
projects into the local search indexes. Run while the server is
stopped; both write the same database.

With --watch, keeps running and re-indexes markdown files as they
change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if indexDocsDir == "" && indexProjectsFile == "" {
			return errors.New("nothing to index: pass --docs and/or --projects")
		}
		if indexWatch && indexDocsDir == "" {
			return errors.New("--watch requires --docs")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		_, engine, cleanup, err := buildServices(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		ing := ingest.New(engine)
		ctx := cmd.Context()

		if indexDocsDir != "" {
			n, err := ing.IngestDocsDir(ctx, indexDocsDir)
			if err != nil {
				return err
			}
			fmt.Printf("indexed %d documentation files from %s\n", n, indexDocsDir)
		}

		if indexProjectsFile != "" {
			n, err := ing.IngestProjects(ctx, indexProjectsFile)
			if err != nil {
				return err
			}
			fmt.Printf("indexed %d projects from %s\n", n, indexProjectsFile)
		}

		if indexWatch {
			fmt.Printf("watching %s for changes, Ctrl-C to stop\n", indexDocsDir)
			return ing.Watch(ctx, indexDocsDir)
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexDocsDir, "docs", "", "directory of markdown documentation to index")
	indexCmd.Flags().StringVar(&indexProjectsFile, "projects", "", "JSON file of past hackathon projects to index")
	indexCmd.Flags().BoolVar(&indexWatch, "watch", false, "keep running and re-index changed markdown files")
	rootCmd.AddCommand(indexCmd)
}
