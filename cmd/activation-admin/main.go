// Command activation-admin manages activation codes and verification logs.
//
//	activation-admin add -code DEMO_003 -product doubao_plugin -interval 72
//	activation-admin delete -code DEMO_003 -product doubao_plugin -yes
//	activation-admin logs -result failed -limit 20
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"activation-service.backend/internal/config"
	"activation-service.backend/internal/domain/entities"
	"activation-service.backend/internal/infrastructure/storage"
	"activation-service.backend/internal/usecases"
	"activation-service.backend/pkg/logger"
)

var errUsage = errors.New("usage: activation-admin <add|update|delete|list|search|stats|logs|clean> [flags]")

var openStore = storage.Open

type adminRuntime interface {
	AddCode(ctx context.Context, input *usecases.AddCodeInput) (*entities.ActivationCode, error)
	UpdateCode(ctx context.Context, code, productKey string, update entities.ActivationCodeUpdate) (*entities.ActivationCode, error)
	DeleteCode(ctx context.Context, code, productKey string) error
	ListCodes(ctx context.Context) ([]*entities.ActivationCode, error)
	SearchCodes(ctx context.Context, criteria entities.CodeSearchCriteria) ([]*entities.ActivationCode, error)
	Statistics(ctx context.Context) (*entities.CodeStatistics, error)
	Logs(ctx context.Context, filter entities.LogFilter) ([]*entities.VerificationLog, error)
	CleanOldLogs(ctx context.Context, days int) (int64, error)
}

type adminDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (adminRuntime, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultAdminDeps() adminDeps {
	return adminDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (adminRuntime, io.Closer, error) {
			store, err := openStore(cfg)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open store: %w", err)
			}
			return usecases.NewAdminUsecase(store.Codes, store.Logs, store.UnitOfWork), store, nil
		},
		out: os.Stdout,
	}
}

func runAdmin(args []string, deps adminDeps) error {
	def := defaultAdminDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}

	fs := flag.NewFlagSet("activation-admin "+args[0], flag.ContinueOnError)
	fs.SetOutput(deps.out)
	run := cmd(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()
	logger.Init(cfg.Server.Env)

	rt, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	return run(context.Background(), rt, deps.out)
}

type commandFunc func(ctx context.Context, rt adminRuntime, out io.Writer) error

// commands bind their flags on fs and return the action to run after parsing
var commands = map[string]func(fs *flag.FlagSet) commandFunc{
	"add":    addCommand,
	"update": updateCommand,
	"delete": deleteCommand,
	"list":   listCommand,
	"search": searchCommand,
	"stats":  statsCommand,
	"logs":   logsCommand,
	"clean":  cleanCommand,
}

func addCommand(fs *flag.FlagSet) commandFunc {
	code := fs.String("code", "", "activation code (required)")
	product := fs.String("product", "", "product key (required)")
	interval := fs.Int("interval", 24, "verify interval in hours")
	notes := fs.String("notes", "", "free-form notes")

	return func(ctx context.Context, rt adminRuntime, out io.Writer) error {
		created, err := rt.AddCode(ctx, &usecases.AddCodeInput{
			Code:                *code,
			ProductKey:          *product,
			VerifyIntervalHours: *interval,
			Notes:               *notes,
		})
		if err != nil {
			return fmt.Errorf("failed to add code: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Added %s for %s (every %dh)\n", created.Code, created.ProductKey, created.VerifyIntervalHours)
		return nil
	}
}

func updateCommand(fs *flag.FlagSet) commandFunc {
	code := fs.String("code", "", "activation code (required)")
	product := fs.String("product", "", "product key (required)")
	interval := fs.Int("interval", 0, "new verify interval in hours")
	notes := fs.String("notes", "", "new notes")
	status := fs.String("status", "", "new status (active|inactive)")

	return func(ctx context.Context, rt adminRuntime, out io.Writer) error {
		var update entities.ActivationCodeUpdate
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "interval":
				update.VerifyIntervalHours = interval
			case "notes":
				update.Notes = notes
			case "status":
				s := entities.CodeStatus(*status)
				update.Status = &s
			}
		})

		updated, err := rt.UpdateCode(ctx, *code, *product, update)
		if err != nil {
			return fmt.Errorf("failed to update code: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Updated %s for %s\n", updated.Code, updated.ProductKey)
		return printCodes(out, []*entities.ActivationCode{updated})
	}
}

func deleteCommand(fs *flag.FlagSet) commandFunc {
	code := fs.String("code", "", "activation code (required)")
	product := fs.String("product", "", "product key (required)")
	yes := fs.Bool("yes", false, "confirm deletion")

	return func(ctx context.Context, rt adminRuntime, out io.Writer) error {
		if !*yes {
			return fmt.Errorf("refusing to delete %s for %s without -yes", *code, *product)
		}
		if err := rt.DeleteCode(ctx, *code, *product); err != nil {
			return fmt.Errorf("failed to delete code: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Deleted %s for %s\n", *code, *product)
		return nil
	}
}

func listCommand(*flag.FlagSet) commandFunc {
	return func(ctx context.Context, rt adminRuntime, out io.Writer) error {
		codes, err := rt.ListCodes(ctx)
		if err != nil {
			return fmt.Errorf("failed to list codes: %w", err)
		}
		return printCodes(out, codes)
	}
}

func searchCommand(fs *flag.FlagSet) commandFunc {
	code := fs.String("code", "", "code substring")
	product := fs.String("product", "", "product key substring")
	status := fs.String("status", "", "exact status (active|inactive)")

	return func(ctx context.Context, rt adminRuntime, out io.Writer) error {
		codes, err := rt.SearchCodes(ctx, entities.CodeSearchCriteria{
			Code:       *code,
			ProductKey: *product,
			Status:     entities.CodeStatus(*status),
		})
		if err != nil {
			return fmt.Errorf("failed to search codes: %w", err)
		}
		return printCodes(out, codes)
	}
}

func statsCommand(*flag.FlagSet) commandFunc {
	return func(ctx context.Context, rt adminRuntime, out io.Writer) error {
		stats, err := rt.Statistics(ctx)
		if err != nil {
			return fmt.Errorf("failed to load statistics: %w", err)
		}
		return printStatistics(out, stats)
	}
}

func logsCommand(fs *flag.FlagSet) commandFunc {
	code := fs.String("code", "", "code substring")
	result := fs.String("result", "", "success|failed")
	start := fs.String("start", "", "earliest timestamp (RFC3339)")
	end := fs.String("end", "", "latest timestamp (RFC3339)")
	limit := fs.Int("limit", entities.DefaultLogQueryLimit, "maximum rows")

	return func(ctx context.Context, rt adminRuntime, out io.Writer) error {
		filter := entities.LogFilter{
			Code:   *code,
			Result: entities.VerificationResult(*result),
			Limit:  *limit,
		}
		var err error
		if filter.StartTime, err = parseTimeFlag("start", *start); err != nil {
			return err
		}
		if filter.EndTime, err = parseTimeFlag("end", *end); err != nil {
			return err
		}

		logs, err := rt.Logs(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to query logs: %w", err)
		}
		return printLogs(out, logs)
	}
}

func cleanCommand(fs *flag.FlagSet) commandFunc {
	days := fs.Int("days", usecases.DefaultLogRetentionDays, "delete logs older than this many days")

	return func(ctx context.Context, rt adminRuntime, out io.Writer) error {
		deleted, err := rt.CleanOldLogs(ctx, *days)
		if err != nil {
			return fmt.Errorf("failed to clean logs: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Deleted %d verification logs older than %d days\n", deleted, *days)
		return nil
	}
}

func parseTimeFlag(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid -%s %q: want RFC3339", name, value)
	}
	t = t.UTC()
	return &t, nil
}

func main() {
	if err := runAdmin(os.Args[1:], defaultAdminDeps()); err != nil {
		log.Fatal(err)
	}
}
