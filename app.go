package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/elC0mpa/cloud-doctor/config"
	"github.com/elC0mpa/cloud-doctor/model"
	"github.com/elC0mpa/cloud-doctor/service"
	"github.com/elC0mpa/cloud-doctor/service/bootstrap"
	"github.com/elC0mpa/cloud-doctor/service/classifier"
	"github.com/elC0mpa/cloud-doctor/service/executor"
	"github.com/elC0mpa/cloud-doctor/service/flag"
	gcpidentity "github.com/elC0mpa/cloud-doctor/service/gcp/identity"
	"github.com/elC0mpa/cloud-doctor/service/orchestrator"
	"github.com/elC0mpa/cloud-doctor/service/storage"
	"github.com/elC0mpa/cloud-doctor/utils"
)

func main() {
	flagService := flag.NewService()

	app := &cli.App{
		Name:    "cloud-doctor",
		Usage:   "Find and remediate wasted spend in a Google Cloud project",
		Version: bootstrap.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"CLOUD_DOCTOR_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "console",
				Usage:   "Log format (console, json)",
				EnvVars: []string{"CLOUD_DOCTOR_LOG_FORMAT"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Inventory, classify, negotiate, approve and execute",
				Flags:  flagService.RunFlags(),
				Action: func(c *cli.Context) error { return runCommand(c, flagService) },
			},
			{
				Name:  "verify",
				Usage: "Check that the credentials can reach the project",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flag.FlagProject, Aliases: []string{"p"}, Required: true, EnvVars: []string{"GCP_PROJECT_ID"}},
					&cli.StringFlag{Name: flag.FlagCredentials, EnvVars: []string{"GOOGLE_APPLICATION_CREDENTIALS"}},
				},
				Action: verifyCommand,
			},
			{
				Name:  "history",
				Usage: "List finished runs",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum runs to show"},
				},
				Action: historyCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		utils.StopSpinner()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) zerolog.Logger {
	return utils.NewLogger(os.Stderr, c.String("log-level"), c.String("log-format"))
}

func runCommand(c *cli.Context, flagService flag.FlagService) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	flags, err := flagService.GetParsedFlags(c)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.ProjectID = flags.Project
	cfg.Mode = model.InventoryMode(flags.Mode)
	if flags.Credentials != "" {
		cfg.CredentialsFile = flags.Credentials
	}
	if flags.BillingAccount != "" {
		cfg.BillingAccount = flags.BillingAccount
	}
	logger := newLogger(c)

	req, err := runRequest(cfg, flags)
	if err != nil {
		return err
	}

	var exec service.Executor
	if flags.ScriptPath != "" {
		script, err := os.Create(flags.ScriptPath)
		if err != nil {
			return fmt.Errorf("failed to create script: %w", err)
		}
		defer func() { _ = script.Close() }()
		exec = executor.NewScriptExecutor(script, flags.Project, logger)
	}

	rt, err := bootstrap.Build(ctx, cfg, logger, exec)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.Background()) }()

	utils.DrawBanner()
	utils.StartSpinner("Inspecting " + flags.Project)
	run, err := rt.Orchestrator.Start(ctx, req)
	utils.StopSpinner()
	if err != nil {
		fmt.Print(utils.LogLines(run.Logs))
		return err
	}

	if run.Snapshot != nil {
		fmt.Println(utils.CostTable(run.Snapshot))
	}
	if len(run.Candidates) > 0 {
		fmt.Println(utils.CandidateTable(run.AccountID, run.Candidates))
		utils.DrawSavingsChart(run.AccountID, classifier.SavingsByReason(run.Candidates))
	}

	if run.Stage == model.StageApproval {
		run, err = decide(ctx, rt.Orchestrator, run, flags.ApproveAll, os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
	}

	if len(run.Actions) > 0 {
		fmt.Println(utils.ActionTable(run.Actions))
	}
	fmt.Print(utils.LogLines(run.Logs))
	fmt.Printf("\n%s\n", run.Report)
	if flags.ScriptPath != "" {
		fmt.Printf("\nCommands written to %s\n", flags.ScriptPath)
	}
	return nil
}

func runRequest(cfg config.Config, flags model.Flags) (model.RunRequest, error) {
	creds, err := cfg.Credentials()
	if err != nil {
		return model.RunRequest{}, err
	}
	req := model.RunRequest{
		AccountID:   flags.Project,
		Intent:      flags.Intent,
		Industry:    flags.Industry,
		Mode:        model.InventoryMode(flags.Mode),
		FilePath:    flags.File,
		Credentials: creds,
		Seed:        flags.Seed,
	}
	if flags.Image != "" {
		image, err := os.ReadFile(flags.Image)
		if err != nil {
			return model.RunRequest{}, fmt.Errorf("failed to read image: %w", err)
		}
		req.Image = image
		req.ImageMIME = http.DetectContentType(image)
	}
	return req, nil
}

// decide resolves the approval gate, either approving everything or asking
// the operator which numbered actions to run.
func decide(ctx context.Context, orch orchestrator.OrchestratorService, run model.Run, approveAll bool, in io.Reader, out io.Writer) (model.Run, error) {
	if approveAll {
		if _, err := orch.ApproveAll(); err != nil {
			return run, err
		}
		return orch.Execute(ctx)
	}

	fmt.Fprintln(out, utils.ActionTable(run.Actions))
	fmt.Fprint(out, "Approve actions (e.g. 1,3 or all, empty to skip): ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return run, fmt.Errorf("failed to read approval: %w", err)
	}

	selected := selection(strings.TrimSpace(line), len(run.Actions))
	for i, a := range run.Actions {
		if selected[i] {
			_, err = orch.Approve(a.ID)
		} else {
			_, err = orch.Reject(a.ID)
		}
		if err != nil {
			return run, err
		}
	}

	if len(selected) == 0 {
		return orch.Dismiss(ctx)
	}
	return orch.Execute(ctx)
}

// selection parses a comma separated list of 1-based positions. Out of
// range and malformed entries are ignored.
func selection(input string, n int) map[int]bool {
	out := map[int]bool{}
	if strings.EqualFold(input, "all") {
		for i := 0; i < n; i++ {
			out[i] = true
		}
		return out
	}
	for _, field := range strings.Split(input, ",") {
		pos, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || pos < 1 || pos > n {
			continue
		}
		out[pos-1] = true
	}
	return out
}

func verifyCommand(c *cli.Context) error {
	var creds []byte
	if path := c.String(flag.FlagCredentials); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read credentials file: %w", err)
		}
		creds = data
	}

	status := gcpidentity.NewService().Verify(c.Context, c.String(flag.FlagProject), creds)
	if !status.OK {
		return errors.New(status.Message)
	}
	fmt.Println(status.Message)
	return nil
}

func historyCommand(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := storage.NewBadgerStore(filepath.Join(cfg.DataDir, "runs"))
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.ListRuns(c.Int("limit"))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}
	fmt.Println(utils.HistoryTable(records))
	return nil
}
