package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/talkincode/productdesk/internal/adminapi"
	"github.com/talkincode/productdesk/internal/app"
	"github.com/talkincode/productdesk/internal/catalog"
	"github.com/talkincode/productdesk/internal/imaging"
	"github.com/talkincode/productdesk/internal/report"
	"github.com/talkincode/productdesk/internal/view"
	"github.com/talkincode/productdesk/internal/webserver"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	listWidth    int
	exportFormat string
	exportOutput string
	exportQuery  string
	encodeData   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin JSON api",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := startApp(false)
		if err != nil {
			return err
		}
		defer a.Release()

		if err := a.Controller().Initialize(cmd.Context()); err != nil {
			// keep serving, clients can still add local products
			zap.L().Warn("catalog not loaded", zap.Error(err))
		}
		adminapi.Init()
		srv := webserver.NewServer(a.Config().WebAddr(),
			adminapi.ContextValues(a.Controller(), a.Encoder(), a.Config()))
		return srv.Start(cmd.Context())
	},
}

var listCmd = &cobra.Command{
	Use:   "list [search term]",
	Short: "Print the merged catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := startApp(true)
		if err != nil {
			return err
		}
		defer a.Release()

		ctl, err := loadCatalog(cmd.Context(), a)
		if err != nil {
			return err
		}
		products := ctl.View()
		if len(args) == 1 {
			products = ctl.Search(args[0])
		}
		out := view.Render(view.Rows(products), -1, listWidth, a.Config().UI.Breakpoint, view.DefaultStyles())
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog as csv or xlsx",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := startApp(true)
		if err != nil {
			return err
		}
		defer a.Release()

		ctl, err := loadCatalog(cmd.Context(), a)
		if err != nil {
			return err
		}
		products := ctl.Search(exportQuery)

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return report.Write(w, exportFormat, products)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := startApp(true)
		if err != nil {
			return err
		}
		defer a.Release()

		ctl, err := loadCatalog(cmd.Context(), a)
		if err != nil {
			return err
		}
		summary, err := report.Summarize(ctl.Merged())
		if err != nil {
			return err
		}
		b, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return err
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode <image>...",
	Short: "Downsize images into inline JPEG data URIs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enc := imaging.NewEncoder(cfg.Image.BoundingBox, cfg.Image.Quality)
		results, err := enc.EncodeFiles(args, cfg.Image.Workers)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		var failed []string
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(out, "%s\terror: %v\n", r.Path, r.Err)
				failed = append(failed, r.Path)
				continue
			}
			if encodeData {
				fmt.Fprintf(out, "%s\t%s\n", r.Path, r.Image.DataURI)
				continue
			}
			fmt.Fprintf(out, "%s\t%dx%d\t%d bytes\n", r.Path, r.Image.Width, r.Image.Height, len(r.Image.DataURI))
		}
		if len(failed) > 0 {
			return fmt.Errorf("could not encode %s", strings.Join(failed, ", "))
		}
		return nil
	},
}

// loadCatalog fetches the remote catalog and the local products once.
func loadCatalog(ctx context.Context, p app.CatalogProvider) (*catalog.Controller, error) {
	ctl := p.Controller()
	if err := ctl.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return ctl, nil
}

func init() {
	listCmd.Flags().IntVar(&listWidth, "width", 120, "layout width in columns")

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", report.FormatCSV, "csv or xlsx")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, stdout when empty")
	exportCmd.Flags().StringVarP(&exportQuery, "query", "q", "", "only export products matching this search term")

	encodeCmd.Flags().BoolVar(&encodeData, "data", false, "print the data URI instead of a summary")
}
