// Package main provides the CLI entry point for kpiboard.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/ukaji3/kpiboard-go/internal/config"
	"github.com/ukaji3/kpiboard-go/internal/server"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/output"
)

var (
	configPath string
	outputPath string
	pretty     bool
	serveAddr  string

	formDate        string
	formSector      string
	formEmail       string
	formValues      map[string]string
	formObservation string
	formLink        string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kpiboard",
		Short: "Load, export and feed the daily business indicators dashboard",
		Long: `kpiboard loads the indicators dashboard from a spreadsheet backend, falling
back to bundled sample data, computes rolling 7- and 30-day aggregates and
submits new daily records.`,
		SilenceUsage: true,
	}

	klogFlags := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: $KPIBOARD_CONFIG or ./kpiboard.toml)")

	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Load the dashboard and print it as JSON",
		Args:  cobra.NoArgs,
		RunE:  runLoad,
	}
	loadCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	loadCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the spreadsheet view of the last 7 days as xlsx",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "indicadores.xlsx", "Output file path")

	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one day of indicator values for a sector",
		Args:  cobra.NoArgs,
		RunE:  runSubmit,
	}
	submitCmd.Flags().StringVar(&formDate, "date", "", "Record date YYYY-MM-DD (default: today)")
	submitCmd.Flags().StringVar(&formSector, "sector", "", "Sector id")
	submitCmd.Flags().StringVar(&formEmail, "email", "", "Responsible e-mail")
	submitCmd.Flags().StringToStringVar(&formValues, "value", nil, "Indicator value as id=value, repeatable")
	submitCmd.Flags().StringVar(&formObservation, "observation", "", "Sector observation for the day")
	submitCmd.Flags().StringVar(&formLink, "link", "", "Sector files link for the day")
	submitCmd.MarkFlagRequired("sector")
	submitCmd.MarkFlagRequired("email")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr)")

	rootCmd.AddCommand(loadCmd, exportCmd, submitCmd, serveCmd)
	return rootCmd
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return newApp(cmd.Context(), cfg)
}

func load(cmd *cobra.Command, a *app) (*kpiboard.Snapshot, error) {
	snap, err := a.loader.Load(cmd.Context(), kpiboard.LoadOptions{Mode: kpiboard.ModeInitial})
	if err != nil {
		return nil, fmt.Errorf("load failed: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), snap.Message)
	return snap, nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	snap, err := load(cmd, a)
	if err != nil {
		return err
	}

	jsonData, err := output.ToJSON(snap.Data, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	snap, err := load(cmd, a)
	if err != nil {
		return err
	}

	f, err := output.Workbook(snap.Data, a.opts.Today())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	defer f.Close()
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runSubmit(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}

	date := a.opts.Today()
	if formDate != "" {
		if date, err = models.ParseDate(formDate); err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	snap, err := load(cmd, a)
	if err != nil {
		return err
	}

	entries, err := kpiboard.BuildEntries(snap.Data, kpiboard.FormInput{
		Date:             date,
		SectorID:         formSector,
		ResponsibleEmail: formEmail,
		Values:           formValues,
		Observation:      formObservation,
		FilesLink:        formLink,
	})
	if err != nil {
		return err
	}

	res, err := a.submitter.Submit(cmd.Context(), entries)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Summary())
	if res.RefreshErr != nil {
		klog.FromContext(cmd.Context()).Error(res.RefreshErr, "refresh after submit failed")
	}
	if !res.OK() {
		return fmt.Errorf("%d of %d records failed", res.Failed, res.Total)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	return server.New(a.loader, a.submitter, a.opts).Run(cmd.Context(), addr, a.cfg.Server.RefreshInterval)
}
