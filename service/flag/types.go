package flag

import (
	"github.com/urfave/cli/v2"

	"github.com/elC0mpa/cloud-doctor/model"
)

const (
	FlagProject        = "project"
	FlagIntent         = "intent"
	FlagIndustry       = "industry"
	FlagMode           = "mode"
	FlagFile           = "file"
	FlagSeed           = "seed"
	FlagImage          = "image"
	FlagApproveAll     = "approve-all"
	FlagScript         = "script"
	FlagCredentials    = "credentials"
	FlagBillingAccount = "billing-account"
)

const defaultIntent = "Reduce monthly spend without risking production workloads."

type service struct{}

type FlagService interface {
	RunFlags() []cli.Flag
	GetParsedFlags(c *cli.Context) (model.Flags, error)
}
