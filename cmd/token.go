// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/canonical/subscription-service/internal/logging"
	"github.com/canonical/subscription-service/internal/token"
	"github.com/canonical/subscription-service/internal/types"
)

var (
	tokenAccountID int64
	tokenEmail     string
	tokenRole      string
	tokenSecret    string
)

// tokenCmd mints a session token for local testing against a running server.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a session token for an account",
	Run: func(cmd *cobra.Command, args []string) {
		codec := token.NewCodec([]byte(tokenSecret), logging.NewNoopLogger())

		signed, err := codec.Sign(&types.Account{
			ID:    tokenAccountID,
			Email: tokenEmail,
			Role:  tokenRole,
		})
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}

		fmt.Println(signed)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().Int64Var(&tokenAccountID, "account-id", 0, "Account ID to mint the token for")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim")
	tokenCmd.Flags().StringVar(&tokenRole, "role", types.RoleOwner, "Role claim")
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "Signing secret")

	_ = tokenCmd.MarkFlagRequired("account-id")
	_ = tokenCmd.MarkFlagRequired("secret")
}
