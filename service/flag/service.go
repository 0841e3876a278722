package flag

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/elC0mpa/cloud-doctor/model"
)

func NewService() *service {
	return &service{}
}

// RunFlags declares the options of a pipeline run
func (s *service) RunFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagProject,
			Aliases: []string{"p"},
			Usage:   "GCP project ID to inspect",
			EnvVars: []string{"GCP_PROJECT_ID"},
		},
		&cli.StringFlag{
			Name:  FlagIntent,
			Value: defaultIntent,
			Usage: "What the cleanup should achieve, passed to the reasoning agent",
		},
		&cli.StringFlag{
			Name:    FlagIndustry,
			Usage:   "Industry context for the report",
			EnvVars: []string{"CLOUD_DOCTOR_INDUSTRY"},
		},
		&cli.StringFlag{
			Name:    FlagMode,
			Aliases: []string{"m"},
			Value:   string(model.InventorySimulated),
			Usage:   "Inventory source (live, file, simulated)",
			EnvVars: []string{"CLOUD_DOCTOR_MODE"},
		},
		&cli.StringFlag{
			Name:    FlagFile,
			Aliases: []string{"f"},
			Usage:   "Inventory document (JSON or YAML) for file mode",
		},
		&cli.Int64Flag{
			Name:    FlagSeed,
			Usage:   "Seed for the simulated inventory (0 picks one)",
			EnvVars: []string{"CLOUD_DOCTOR_SEED"},
		},
		&cli.StringFlag{
			Name:  FlagImage,
			Usage: "Architecture diagram (PNG, JPEG or WebP) to analyze",
		},
		&cli.BoolFlag{
			Name:  FlagApproveAll,
			Usage: "Approve every proposed action without prompting",
		},
		&cli.StringFlag{
			Name:  FlagScript,
			Usage: "Write gcloud commands to this file instead of simulating execution",
		},
		&cli.StringFlag{
			Name:    FlagCredentials,
			Usage:   "Service account key file (defaults to application default credentials)",
			EnvVars: []string{"GOOGLE_APPLICATION_CREDENTIALS"},
		},
		&cli.StringFlag{
			Name:    FlagBillingAccount,
			Usage:   "Billing account ID for the billed spend in the report",
			EnvVars: []string{"GCP_BILLING_ACCOUNT"},
		},
	}
}

func (s *service) GetParsedFlags(c *cli.Context) (model.Flags, error) {
	flags := model.Flags{
		Project:        c.String(FlagProject),
		Intent:         c.String(FlagIntent),
		Industry:       c.String(FlagIndustry),
		Mode:           strings.ToLower(c.String(FlagMode)),
		File:           c.String(FlagFile),
		Seed:           c.Int64(FlagSeed),
		Image:          c.String(FlagImage),
		ApproveAll:     c.Bool(FlagApproveAll),
		ScriptPath:     c.String(FlagScript),
		Credentials:    c.String(FlagCredentials),
		BillingAccount: c.String(FlagBillingAccount),
	}

	switch model.InventoryMode(flags.Mode) {
	case model.InventoryLive:
		if flags.Project == "" {
			return model.Flags{}, fmt.Errorf("--%s is required in live mode", FlagProject)
		}
	case model.InventoryFile:
		if flags.File == "" {
			return model.Flags{}, fmt.Errorf("--%s is required in file mode", FlagFile)
		}
	case model.InventorySimulated:
		if flags.Project == "" {
			flags.Project = "simulated-project"
		}
	default:
		return model.Flags{}, fmt.Errorf("unknown inventory mode %q", flags.Mode)
	}

	return flags, nil
}
