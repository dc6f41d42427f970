package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ferdian3456/staffroster/internal/config"
	"github.com/ferdian3456/staffroster/internal/util"
	"github.com/spf13/cobra"
)

type TokenOptions struct {
	*RootOptions
	Subject string
	TTL     time.Duration
}

// NewTokenCommand issues a bearer token for the ops API.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an ops API access token",
		Long: `Sign an HS256 access token with JWT_SECRET_KEY.

Example:
  staffroster token --subject grafana --ttl 720h`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return issueToken(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Subject, "subject", "", "token subject (required)")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", util.AccessTokenDuration, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func issueToken(opts *TokenOptions, cmd *cobra.Command) error {
	if opts.Subject == "" {
		return errors.New("subject must not be empty")
	}

	log := config.NewZap(os.Getenv("LOG_LEVEL"))
	koanf := config.NewKoanf(log, opts.EnvFile)

	token, err := util.GenerateAccessToken(opts.Subject, koanf.String("JWT_SECRET_KEY"), opts.TTL)
	if err != nil {
		return err
	}

	body, err := sonic.ConfigStd.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
	return err
}
