package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/clients/adjustments"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/clients/calculate"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/clients/casemgmt"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/clients/hmppsauth"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/clients/rest"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/config"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/db"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/eligibility"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/engine"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/journey"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/migrate"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/observability"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/repo"
	"github.com/ministryofjustice/hmpps-record-a-recall-sub000/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "record-a-recall",
	Short: "Recall journey service",
	Long: `record-a-recall runs the journey engine for recording prison recalls.
A caseworker's journey collects the revocation date, return to custody
date, and recall type; the calculation collaborator decides whether the
sentence selection can be automated; the finished recall is submitted to
the case-management service. Journeys live in memory, the local SQLite
database only holds the audit log.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("RECALL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(recallTypesCmd())
	rootCmd.AddCommand(reasonsCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(configCmd())
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			cfg, err := config.Load(workspace)
			if err != nil {
				return err
			}
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}

			var tokens rest.TokenSource
			if cfg.HMPPSAuth.TokenURL != "" {
				tokens = hmppsauth.New(hmppsauth.Config{
					TokenURL:     cfg.HMPPSAuth.TokenURL,
					ClientID:     cfg.HMPPSAuth.ClientID,
					ClientSecret: cfg.HMPPSAuth.ClientSecret,
				})
			}
			e := engine.New(
				journey.NewStore(),
				calculate.New(cfg.Collaborators.CalculationURL, tokens),
				casemgmt.New(cfg.Collaborators.CaseManagementURL, tokens),
				adjustments.New(cfg.Collaborators.AdjustmentsURL, tokens),
				conn,
			)

			jwtSecret := cfg.API.JWTSecret
			if jwtSecret == "" {
				jwtSecret = os.Getenv("RECALL_JWT_SECRET")
			}
			if jwtSecret == "" {
				return fmt.Errorf("api.jwt_secret or RECALL_JWT_SECRET is required for bearer auth")
			}
			if basePath == "" {
				basePath = cfg.API.BasePath
			}
			if addr == "" {
				addr = cfg.API.ListenAddr
			}
			handler, err := server.New(server.Config{
				Engine:   e,
				BasePath: basePath,
				Auth:     server.AuthConfig{JWTSecret: jwtSecret},
			})
			if err != nil {
				return err
			}

			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			observability.Logger().Info("serving recall API",
				"addr", addr,
				"base_path", basePath,
				"calculation_url", cfg.Collaborators.CalculationURL,
				"case_management_url", cfg.Collaborators.CaseManagementURL,
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path (defaults to config)")
	return cmd
}

func recallTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recall-types",
		Short: "List the recall type universe",
		RunE: func(cmd *cobra.Command, args []string) error {
			types := eligibility.RecallTypes()
			if viper.GetBool("json") {
				return printJSON(types)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Code", "Description", "Fixed term"})
			for _, rt := range types {
				tw.AppendRow(table.Row{rt.Code, rt.Description, rt.FixedTerm})
			}
			tw.Render()
			return nil
		},
	}
}

func reasonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reasons",
		Short: "Show the eligibility reason table",
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := []string{
				eligibility.ReasonStandardDeterminate,
				eligibility.ReasonHDCRelease,
				eligibility.ReasonIndeterminate,
				eligibility.ReasonUnsupportedType,
				eligibility.ReasonNoSentencesForRecall,
				eligibility.ReasonMultipleSentences,
			}
			if viper.GetBool("json") {
				var out []eligibility.Reason
				for _, code := range codes {
					if r, ok := eligibility.ReasonByCode(code); ok {
						out = append(out, r)
					}
				}
				return printJSON(out)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Code", "Route", "Eligible types", "Description"})
			for _, code := range codes {
				r, ok := eligibility.ReasonByCode(code)
				if !ok {
					continue
				}
				eligible := strings.Join(r.EligibleTypes, ", ")
				if eligible == "" {
					eligible = "-"
				}
				tw.AppendRow(table.Row{r.Code, r.Route, eligible, r.Description})
			}
			tw.Render()
			return nil
		},
	}
}

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Audit log",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	var follow bool
	var interval time.Duration
	var subjectID, journeyID, evtType string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail audit events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				if follow {
					return followEvents(ctx, r, subjectID, journeyID, evtType, interval)
				}
				events, err := r.LatestEvents(ctx, n, subjectID, journeyID, evtType)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(events)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "TS", "Type", "Subject", "Journey", "Actor"})
				for _, e := range events {
					tw.AppendRow(table.Row{e.ID, e.TS, e.Type, e.SubjectID, shortID(e.JourneyID), e.ActorID})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "poll for new events until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "poll interval with --follow")
	cmd.Flags().StringVar(&subjectID, "subject", "", "subject id filter")
	cmd.Flags().StringVar(&journeyID, "journey", "", "journey id filter")
	cmd.Flags().StringVar(&evtType, "type", "", "event type filter")
	return cmd
}

// followEvents polls for events past the current tip and prints them as
// they land. The journey and type filters apply after the fetch so the
// cursor still advances past filtered-out entries.
func followEvents(ctx context.Context, r repo.Repo, subjectID, journeyID, evtType string, interval time.Duration) error {
	cursor, err := r.LatestEventID(ctx, subjectID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		events, err := r.EventsAfter(ctx, 100, cursor, subjectID)
		if err != nil {
			return err
		}
		for _, e := range events {
			cursor = e.ID
			if journeyID != "" && e.JourneyID != journeyID {
				continue
			}
			if evtType != "" && e.Type != evtType {
				continue
			}
			if viper.GetBool("json") {
				if err := enc.Encode(e); err != nil {
					return err
				}
				continue
			}
			fmt.Printf("%d\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.TS, e.Type, e.SubjectID, shortID(e.JourneyID), e.ActorID)
		}
	}
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	cfg.AddCommand(configInitCmd())
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	return cfg
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default recall.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			if cfg == nil {
				cfg = config.Default()
			}
			return printJSON(cfg)
		},
	}
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate recall.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(viper.GetString("workspace")); err != nil {
				return err
			}
			fmt.Println("config ok")
			return nil
		},
	}
}

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	conn, err := db.Open(db.Config{Workspace: viper.GetString("workspace")})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	return fn(ctx, repo.Repo{DB: conn})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
