// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/voteledger/auth"
	"github.com/danielhkuo/voteledger/cliparse"
	"github.com/danielhkuo/voteledger/models"
)

// tokenCommand signs caller tokens with the same secret and TTL the server
// is configured with, read from the same .env, config file and environment.
func tokenCommand() *cobra.Command {
	var (
		address    string
		configFile string
		secret     string
		ttl        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a caller token for an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.Load(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("token-secret") {
				cfg.TokenSecret = secret
			}
			if cmd.Flags().Changed("token-ttl") {
				cfg.TokenTTL = ttl
			}
			if err := cfg.ValidateTokenSettings(); err != nil {
				return err
			}

			addr, err := models.ParseAddress(address)
			if err != nil {
				return err
			}
			token, err := auth.IssueCallerToken(addr, cfg.TokenSecret, cfg.TokenTTL, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	defaults := cliparse.Defaults()
	cmd.Flags().StringVarP(&address, "address", "a", "", "caller address the token identifies")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&secret, "token-secret", "", "token signing secret (prefer env)")
	cmd.Flags().DurationVar(&ttl, "token-ttl", defaults.TokenTTL, "token lifetime, 0 for no expiry")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}
