// Package main provides the CLI entry point for reelcheck.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/reelcheck/reelcheck"
	"github.com/reelcheck/reelcheck/internal/config"
	"github.com/reelcheck/reelcheck/internal/logging"
	"github.com/reelcheck/reelcheck/internal/report"
	"github.com/reelcheck/reelcheck/internal/retrieve"
	"github.com/reelcheck/reelcheck/internal/server"
	"github.com/reelcheck/reelcheck/internal/util"
)

const (
	appName    = "reelcheck"
	appVersion = "0.3.0"
)

type globalFlags struct {
	verbose bool
	jsonOut bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Video quality checker for technical conformance and on-screen text",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.LevelInfo
			if flags.verbose {
				level = logging.LevelDebug
			}
			logging.Init(level, os.Stderr, !flags.jsonOut)
		},
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVar(&flags.jsonOut, "json", false, "emit NDJSON events instead of terminal output")

	root.AddCommand(
		newCheckCmd(flags),
		newFetchCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

type checkFlags struct {
	configFile    string
	preset        string
	vocabulary    []string
	vocabFile     string
	maxKeyframes  int
	intervalSecs  float64
	ocrConfidence float64
	tesseractCmd  string
	mergeWindow   float64
	workers       int
	reportPath    string
	logDir        string
	noLog         bool
}

func newCheckCmd(global *globalFlags) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check <file-or-directory-or-url>",
		Short: "Run a quality check on a video",
		Long: `Run a quality check on a video file, every video in a directory,
or a share link. The check verifies resolution, frame rate, and codec,
then reads on-screen text via OCR and flags spelling and grammar
problems. Exit code 1 means the check ran and the video failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), args[0], flags, global)
		},
	}

	cmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&flags.preset, "preset", "p", "", "analysis preset (strict, standard, quick)")
	cmd.Flags().StringSliceVar(&flags.vocabulary, "vocab", nil, "vocabulary terms exempt from spelling checks")
	cmd.Flags().StringVar(&flags.vocabFile, "vocab-file", "", "file with one vocabulary term per line")
	cmd.Flags().IntVar(&flags.maxKeyframes, "max-keyframes", 0, "cap on sampled frames")
	cmd.Flags().Float64Var(&flags.intervalSecs, "interval", 0, "minimum seconds between sampled frames")
	cmd.Flags().Float64Var(&flags.ocrConfidence, "ocr-confidence", 0, "minimum OCR confidence (0-100)")
	cmd.Flags().StringVar(&flags.tesseractCmd, "tesseract-cmd", "", "OCR binary override")
	cmd.Flags().Float64Var(&flags.mergeWindow, "merge-window", 0, "seconds within which repeated issues merge")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "frame analysis pool size")
	cmd.Flags().StringVarP(&flags.reportPath, "output", "o", "", "write the JSON report to a file")
	cmd.Flags().StringVarP(&flags.logDir, "log-dir", "l", "logs", "diagnostic log directory")
	cmd.Flags().BoolVar(&flags.noLog, "no-log", false, "disable the diagnostic log file")
	return cmd
}

func checkerOptions(flags *checkFlags) ([]reelcheck.Option, error) {
	var opts []reelcheck.Option
	if flags.preset != "" {
		preset, err := reelcheck.ParsePreset(flags.preset)
		if err != nil {
			return nil, err
		}
		opts = append(opts, reelcheck.WithPreset(preset))
	}
	if flags.maxKeyframes > 0 {
		opts = append(opts, reelcheck.WithMaxKeyframes(flags.maxKeyframes))
	}
	if flags.intervalSecs > 0 {
		opts = append(opts, reelcheck.WithSampleInterval(flags.intervalSecs))
	}
	if flags.ocrConfidence > 0 {
		opts = append(opts, reelcheck.WithOCRConfidence(flags.ocrConfidence))
	}
	if flags.tesseractCmd != "" {
		opts = append(opts, reelcheck.WithTesseractCommand(flags.tesseractCmd))
	}
	if flags.mergeWindow > 0 {
		opts = append(opts, reelcheck.WithMergeWindow(flags.mergeWindow))
	}
	if flags.workers > 0 {
		opts = append(opts, reelcheck.WithWorkers(flags.workers))
	}
	return opts, nil
}

func runCheck(ctx context.Context, input string, flags *checkFlags, global *globalFlags) error {
	opts, err := checkerOptions(flags)
	if err != nil {
		return err
	}

	var checker *reelcheck.Checker
	if flags.configFile != "" {
		checker, err = reelcheck.NewFromConfigFile(flags.configFile, opts...)
	} else {
		checker, err = reelcheck.New(opts...)
	}
	if err != nil {
		return err
	}

	vocabulary, err := loadVocabulary(flags)
	if err != nil {
		return err
	}

	runLog, err := logging.SetupRunLog(flags.logDir, global.verbose, flags.noLog)
	if err != nil {
		return err
	}
	defer runLog.Close()

	host := util.GetSystemInfo()
	runLog.Info("Host: %s (%s/%s, %d CPUs)", host.Hostname, host.OS, host.Arch, host.NumCPU)
	runLog.Info("Input: %s", input)

	var rep reelcheck.Reporter
	if global.jsonOut {
		rep = reelcheck.NewJSONReporter()
	} else {
		rep = reelcheck.NewTerminalReporter()
	}

	reports, err := runTarget(ctx, checker, input, vocabulary, rep)
	if err != nil {
		runLog.Error("Check failed: %v", err)
		return err
	}
	for _, rpt := range reports {
		runLog.Info("Result: %s (technical %s, content %s, %d errors)",
			rpt.Status, rpt.TechnicalStatus, rpt.ContentStatus, rpt.Summary.TotalErrors)
	}

	if flags.reportPath != "" {
		if err := writeReports(flags.reportPath, reports); err != nil {
			return err
		}
	}

	for _, rpt := range reports {
		if rpt.Status != report.StatusPass {
			os.Exit(1)
		}
	}
	return nil
}

// runTarget dispatches the input to the right check mode: a share link,
// a directory of videos, or a single file.
func runTarget(ctx context.Context, checker *reelcheck.Checker, input string, vocabulary []string, rep reelcheck.Reporter) ([]*reelcheck.Report, error) {
	switch {
	case isShareLink(input):
		rpt, err := checker.CheckURL(ctx, input, vocabulary, rep)
		if err != nil {
			return nil, err
		}
		return []*reelcheck.Report{rpt}, nil
	case util.DirectoryExists(input):
		files, err := reelcheck.FindVideos(input)
		if err != nil {
			return nil, err
		}
		return checker.CheckBatch(ctx, files, vocabulary, rep)
	default:
		rpt, err := checker.Check(ctx, input, vocabulary, rep)
		if err != nil {
			return nil, err
		}
		return []*reelcheck.Report{rpt}, nil
	}
}

func isShareLink(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

func loadVocabulary(flags *checkFlags) ([]string, error) {
	vocabulary := flags.vocabulary
	if flags.vocabFile == "" {
		return vocabulary, nil
	}

	data, err := os.ReadFile(flags.vocabFile)
	if err != nil {
		return nil, fmt.Errorf("cannot read vocabulary file: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if term := strings.TrimSpace(line); term != "" {
			vocabulary = append(vocabulary, term)
		}
	}
	return vocabulary, nil
}

func writeReports(path string, reports []*reelcheck.Report) error {
	var payload any = reports
	if len(reports) == 1 {
		payload = reports[0]
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// downloadProgress renders a byte-count progress bar on stderr. The
// total can be -1 when the server does not send Content-Length.
func downloadProgress() func(downloaded, total int64) {
	var bar *progressbar.ProgressBar
	return func(downloaded, total int64) {
		if bar == nil {
			bar = progressbar.DefaultBytes(total, "Downloading")
		}
		_ = bar.Set64(downloaded)
	}
}

func newFetchCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "fetch <share-url>",
		Short: "Download a video from a share link without checking it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := retrieve.NewClient()
			client.Progress = downloadProgress()

			dest, err := client.Fetch(cmd.Context(), args[0], outputDir)
			if err != nil {
				return err
			}
			fmt.Printf("Saved to %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "download directory")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		addr       string
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the quality check HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			if configFile != "" {
				if err := cfg.LoadFile(configFile); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return server.New(cfg, logging.Global()).Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
}
