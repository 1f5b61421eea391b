// Command engagectl is the SportsEdge Engage operations CLI.
//
// Usage:
//
//	engagectl send --user u123 --type prediction --data homeTeam=Celtics --data awayTeam=Lakers
//	engagectl batch --users u1,u2,u3 --type valueBet --data team=Celtics --data odds=150
//	engagectl engage --log 6f1d... --user u123 --action open
//	engagectl preview --type gameReminder --variant withOdds --data odds=150
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sportsedge/engage/internal/config"
	"github.com/sportsedge/engage/internal/db"
	"github.com/sportsedge/engage/internal/notify"
	"github.com/sportsedge/engage/internal/push"
	"github.com/sportsedge/engage/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "engagectl",
		Short: "SportsEdge Engage notification CLI",
	}

	root.AddCommand(sendCmd())
	root.AddCommand(batchCmd())
	root.AddCommand(engageCmd())
	root.AddCommand(previewCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// send command
// --------------------------------------------------------------------------

func sendCmd() *cobra.Command {
	var (
		userID  string
		typ     string
		data    []string
		teams   []string
		players []string
		isLocal bool
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Evaluate and send one personalized notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" || typ == "" {
				return fmt.Errorf("--user and --type are required")
			}
			return withEngine(func(ctx context.Context, engine *notify.Engine, _ *store.Profiles) error {
				event := notify.Event{
					Type:            notify.Type(typ),
					Payload:         parseData(data),
					AffectedTeams:   teams,
					AffectedPlayers: players,
					IsLocal:         isLocal,
				}
				result, err := engine.SendToUser(ctx, userID, event)
				if err != nil {
					return err
				}
				if result.Sent {
					logger.Info("Sent", "user", userID, "log_id", result.LogID, "priority", result.Priority)
				} else {
					logger.Info("Suppressed", "user", userID, "reason", result.SuppressionReason)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "Target user id")
	cmd.Flags().StringVar(&typ, "type", "", "Notification type")
	cmd.Flags().StringArrayVar(&data, "data", nil, "Payload entries as key=value (repeatable)")
	cmd.Flags().StringSliceVar(&teams, "teams", nil, "Affected team ids")
	cmd.Flags().StringSliceVar(&players, "players", nil, "Affected player ids")
	cmd.Flags().BoolVar(&isLocal, "local", false, "Mark the event location-tagged")
	return cmd
}

// --------------------------------------------------------------------------
// batch command
// --------------------------------------------------------------------------

func batchCmd() *cobra.Command {
	var (
		users   []string
		typ     string
		data    []string
		teams   []string
		players []string
		isLocal bool
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Fan one event out to many users",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(users) == 0 || typ == "" {
				return fmt.Errorf("--users and --type are required")
			}
			return withEngine(func(ctx context.Context, engine *notify.Engine, _ *store.Profiles) error {
				event := notify.Event{
					Type:            notify.Type(typ),
					Payload:         parseData(data),
					AffectedTeams:   teams,
					AffectedPlayers: players,
					IsLocal:         isLocal,
				}
				result := engine.SendToUsers(ctx, users, event)
				logger.Info("Batch complete",
					"total", result.Total,
					"success", result.SuccessCount,
					"failed", result.FailureCount)
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&users, "users", nil, "Target user ids (comma separated)")
	cmd.Flags().StringVar(&typ, "type", "", "Notification type")
	cmd.Flags().StringArrayVar(&data, "data", nil, "Payload entries as key=value (repeatable)")
	cmd.Flags().StringSliceVar(&teams, "teams", nil, "Affected team ids")
	cmd.Flags().StringSliceVar(&players, "players", nil, "Affected player ids")
	cmd.Flags().BoolVar(&isLocal, "local", false, "Mark the event location-tagged")
	return cmd
}

// --------------------------------------------------------------------------
// engage command
// --------------------------------------------------------------------------

func engageCmd() *cobra.Command {
	var (
		logID  string
		userID string
		action string
	)
	cmd := &cobra.Command{
		Use:   "engage",
		Short: "Record an engagement action against a sent notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			if logID == "" || userID == "" {
				return fmt.Errorf("--log and --user are required")
			}
			a := notify.EngagementAction(action)
			if !a.Valid() {
				return fmt.Errorf("--action must be open, click, or dismiss")
			}
			return withEngine(func(ctx context.Context, engine *notify.Engine, _ *store.Profiles) error {
				return engine.RecordEngagement(ctx, logID, userID, a)
			})
		},
	}
	cmd.Flags().StringVar(&logID, "log", "", "Notification log entry id")
	cmd.Flags().StringVar(&userID, "user", "", "User id")
	cmd.Flags().StringVar(&action, "action", "open", "Engagement action")
	return cmd
}

// --------------------------------------------------------------------------
// preview command
// --------------------------------------------------------------------------

func previewCmd() *cobra.Command {
	var (
		typ     string
		variant string
		data    []string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a template variant locally (no database, no send)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if typ == "" {
				return fmt.Errorf("--type is required")
			}
			templates := notify.NewTemplateStore(notify.DefaultTemplates)
			v := notify.Variant(variant)
			if v == "" {
				v = notify.VariantDefault
			}
			title, body := templates.Resolve(notify.Type(typ), v, parseData(data))
			fmt.Printf("title: %s\nbody:  %s\n", title, body)
			if !templates.Known(notify.Type(typ)) {
				fmt.Println("(unknown type, generic fallback shown)")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "Notification type")
	cmd.Flags().StringVar(&variant, "variant", "", "Template variant")
	cmd.Flags().StringArrayVar(&data, "data", nil, "Variables as key=value (repeatable)")
	return cmd
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// withEngine connects to the database, wires an engine, and runs fn.
func withEngine(fn func(context.Context, *notify.Engine, *store.Profiles) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	profiles := store.NewProfiles(pool.Pool, nil)
	logs := store.NewLogs(pool.Pool)
	engagements := store.NewEngagements(pool.Pool)
	gateway := push.NewGateway(cfg.PushGatewayURL, cfg.PushGatewayToken, cfg.PushBatchSize, pool.Pool, logger)

	engine := notify.NewEngine(profiles, logs, engagements, gateway,
		notify.NewTemplateStore(notify.DefaultTemplates), logger,
		notify.WithWorkers(cfg.BatchWorkers))

	return fn(ctx, engine, profiles)
}

// parseData converts repeated key=value flags into a payload map.
func parseData(entries []string) map[string]string {
	payload := make(map[string]string, len(entries))
	for _, e := range entries {
		k, v, ok := strings.Cut(e, "=")
		if ok && k != "" {
			payload[k] = v
		}
	}
	return payload
}
