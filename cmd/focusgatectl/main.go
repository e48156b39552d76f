package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/focusgate/focusgate/pkg/client"
)

var (
	apiFlag  string
	userFlag string
	rootCmd  = &cobra.Command{
		Use:   "focusgatectl",
		Short: "CLI client for the focusgate REST API",
	}
)

func newClient() *client.Client {
	opts := []client.Option{}
	if userFlag != "" {
		opts = append(opts, client.WithUser(userFlag))
	}
	return client.New(apiFlag, opts...)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "focusgate service base URL")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "User ID (default resolved by the server)")

	// evaluate subcommand
	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a content item and print the decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			source, _ := cmd.Flags().GetString("source")
			domain, _ := cmd.Flags().GetString("domain")
			contentType, _ := cmd.Flags().GetString("type")

			d, err := newClient().Evaluate(context.Background(), &client.ContentItem{
				Title:       title,
				Source:      source,
				Domain:      domain,
				ContentType: client.ContentType(contentType),
			})
			if err != nil {
				return err
			}
			return printJSON(d)
		},
	}
	evaluateCmd.Flags().StringP("title", "t", "", "Content title")
	evaluateCmd.Flags().StringP("source", "s", "cli", "Content source")
	evaluateCmd.Flags().StringP("domain", "d", "", "Content domain")
	evaluateCmd.Flags().String("type", "article", "Content type")
	rootCmd.AddCommand(evaluateCmd)

	// profile subcommand
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the user profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newClient().GetProfile(context.Background())
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}
	rootCmd.AddCommand(profileCmd)

	// rules subcommands
	rulesCmd := &cobra.Command{Use: "rules", Short: "Manage intervention rules"}

	rulesListCmd := &cobra.Command{
		Use:   "list",
		Short: "List rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := newClient().ListRules(context.Background())
			if err != nil {
				return err
			}
			return printJSON(rules)
		},
	}
	rulesCmd.AddCommand(rulesListCmd)

	rulesAddCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, _ := cmd.Flags().GetString("domain")
			action, _ := cmd.Flags().GetString("action")
			reason, _ := cmd.Flags().GetString("reason")
			priority, _ := cmd.Flags().GetInt("priority")
			ruleID, _ := cmd.Flags().GetString("id")

			rule := &client.InterventionRule{
				RuleID:   ruleID,
				Action:   client.Action(action),
				Reason:   reason,
				Priority: priority,
				IsActive: true,
			}
			if domain != "" {
				rule.Domain = &domain
			}
			created, err := newClient().CreateRule(context.Background(), rule)
			if err != nil {
				return err
			}
			return printJSON(created)
		},
	}
	rulesAddCmd.Flags().String("id", "", "Rule ID (generated when omitted)")
	rulesAddCmd.Flags().StringP("domain", "d", "", "Domain substring to match")
	rulesAddCmd.Flags().String("action", "BLOCK", "Action when the rule matches")
	rulesAddCmd.Flags().StringP("reason", "r", "", "Human-readable reason (required)")
	rulesAddCmd.Flags().IntP("priority", "p", 50, "Rule priority 0-100")
	_ = rulesAddCmd.MarkFlagRequired("reason")
	rulesCmd.AddCommand(rulesAddCmd)

	rulesRmCmd := &cobra.Command{
		Use:   "rm <ruleId>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().DeleteRule(context.Background(), args[0])
		},
	}
	rulesCmd.AddCommand(rulesRmCmd)
	rootCmd.AddCommand(rulesCmd)

	// feedback subcommand
	feedbackCmd := &cobra.Command{
		Use:   "feedback <decisionId>",
		Short: "Submit rating feedback on a decision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, _ := cmd.Flags().GetInt("rating")
			fb := client.UserFeedback{
				DecisionID:   args[0],
				FeedbackType: client.FeedbackExplicitRating,
				Rating:       &rating,
			}
			created, err := newClient().SubmitFeedback(context.Background(), fb)
			if err != nil {
				return err
			}
			return printJSON(created)
		},
	}
	feedbackCmd.Flags().Int("rating", 0, "Rating: -1 too lenient, 0 neutral, +1 too strict")
	rootCmd.AddCommand(feedbackCmd)

	// status subcommand
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show service status",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newClient().Status(context.Background())
			if err != nil {
				return err
			}
			return printJSON(st)
		},
	}
	rootCmd.AddCommand(statusCmd)

	// events subcommand
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "List recent system events",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("level")
			limit, _ := cmd.Flags().GetInt("limit")
			events, err := newClient().ListEvents(context.Background(), level, limit)
			if err != nil {
				return err
			}
			return printJSON(events)
		},
	}
	eventsCmd.Flags().String("level", "", "Filter by level (DEBUG, INFO, WARNING, ERROR)")
	eventsCmd.Flags().Int("limit", 50, "Maximum events to return")
	rootCmd.AddCommand(eventsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
