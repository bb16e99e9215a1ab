// Command tokenctl issues and inspects password-recovery tokens with the
// same key and issuer the API server is configured with.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gameslibrary/internal/auth"
	intconfig "gameslibrary/internal/config"
	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"
	"gameslibrary/internal/notify"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

type settings struct {
	cfg     auth.TokenConfig
	linkURL string
	out     string
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var (
		s      settings
		issuer string
	)

	root := &cobra.Command{
		Use:          "tokenctl",
		Short:        "Issue and inspect password recovery tokens",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env, err := intconfig.LoadEnv()
			if err != nil {
				return err
			}
			s.cfg = auth.TokenConfig{
				Key:    []byte(env.JWT.Key),
				Issuer: env.JWT.Issuer,
				TTL:    env.Recovery.TokenTTL,
			}
			if issuer != "" {
				s.cfg.Issuer = issuer
			}
			s.linkURL = env.Recovery.ResetURLBase
			if len(s.cfg.Key) == 0 {
				return fmt.Errorf("JWT_KEY is not set")
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.PersistentFlags().StringVar(&issuer, "issuer", "", "override JWT_ISSUER")
	root.PersistentFlags().StringVar(&s.out, "out", "text", "output format: text|json")

	root.AddCommand(newIssueCmd(&s), newInspectCmd(&s))
	return root
}

func newIssueCmd(s *settings) *cobra.Command {
	var (
		username, email string
		ttl             time.Duration
	)
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a recovery token for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := s.cfg
			if ttl > 0 {
				cfg.TTL = ttl
			}
			iss, err := auth.NewIssuer(cfg)
			if err != nil {
				return err
			}
			token, err := iss.Issue(models.Identity{Username: username, Email: email})
			if err != nil {
				return err
			}

			link := ""
			if s.linkURL != "" {
				if link, err = notify.BuildResetLink(s.linkURL, email, token); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if s.out == "json" {
				return printJSON(w, map[string]string{"token": token, "link": link})
			}
			fmt.Fprintln(w, token)
			if link != "" {
				fmt.Fprintln(w, link)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account username (sub claim)")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to RECOVERY_TOKEN_TTL")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

type inspection struct {
	Valid     bool      `json:"valid"`
	Kind      string    `json:"kind,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	Email     string    `json:"email,omitempty"`
	ID        string    `json:"jti,omitempty"`
	Issuer    string    `json:"iss,omitempty"`
	ExpiresAt time.Time `json:"exp,omitzero"`
}

func newInspectCmd(s *settings) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "inspect TOKEN",
		Short: "Validate a recovery token against an email and print the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := auth.NewValidator(s.cfg)
			if err != nil {
				return err
			}
			res := inspection{Valid: true}
			claims, err := v.Validate(args[0], email)
			if err != nil {
				kind, ok := domain.TokenErrorKindOf(err)
				if !ok {
					return err
				}
				res = inspection{Kind: string(kind)}
			} else {
				res.Subject = claims.Subject
				res.Email = claims.Email
				res.ID = claims.ID
				res.Issuer = claims.Issuer
				if claims.ExpiresAt != nil {
					res.ExpiresAt = claims.ExpiresAt.Time.UTC()
				}
			}

			w := cmd.OutOrStdout()
			if s.out == "json" {
				return printJSON(w, res)
			}
			if !res.Valid {
				fmt.Fprintf(w, "invalid: %s\n", res.Kind)
				return nil
			}
			fmt.Fprintf(w, "valid\nsub:   %s\nemail: %s\njti:   %s\niss:   %s\nexp:   %s\n",
				res.Subject, res.Email, res.ID, res.Issuer, res.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email the token is expected to belong to")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
