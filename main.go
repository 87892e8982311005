package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"redis_backed_model/internal/config"
	"redis_backed_model/internal/core"
	"redis_backed_model/internal/storage"
	"redis_backed_model/pkg"
	"redis_backed_model/src"
	"redis_backed_model/src/logger"
)

const usage = `usage: redis_backed_model <command> [flags] [args]

commands:
  commands -model NAME [FILE]     print the store commands for a JSON attribute object
  save     -model NAME [FILE]     save a JSON attribute object (-generate-id adds a uuid id)
  find     -model NAME ID...      print the stored records as JSON
  exists   -model NAME ID         print true if a record is stored for ID
  apply    [FILE]                 execute pipe-delimited commands, one per line

FILE defaults to stdin.`

var errUsage = errors.New(usage)

// store is what the CLI needs from a backend
type store interface {
	core.HashReader
	core.Executor
	ExecuteAll(ctx context.Context, cmds []pkg.Command) error
	Save(ctx context.Context, e *core.Entity) error
}

// app wires the commands to their collaborators
type app struct {
	models *config.Registry
	store  store
	stdin  io.Reader
	stdout io.Writer
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	cfg, err := src.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logger.InitLogger(cfg.LogConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()

	models, err := config.LoadModels(cfg.StoreConfig.ModelsConfig)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.StoreConfig.ModelsConfig).Msg("failed to load models")
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	st, closeStore, err := openStore(ctx, cfg.StoreConfig.RedisURL, storage.NewMetrics(reg))
	if err != nil {
		logger.Error().Err(err).Msg("failed to open store")
		os.Exit(1)
	}
	defer closeStore()

	a := &app{models: models, store: st, stdin: os.Stdin, stdout: os.Stdout}
	err = a.run(ctx, os.Args[1:])
	logMetrics(reg)
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func openStore(ctx context.Context, redisURL string, metrics *storage.Metrics) (store, func(), error) {
	if redisURL == "" {
		logger.Warn().Msg("REDIS_URL not set, using in-memory store")
		return storage.NewMemoryStore(), func() {}, nil
	}

	rs, err := storage.NewRedisStore(ctx, redisURL, metrics)
	if err != nil {
		return nil, nil, err
	}
	return rs, func() { rs.Close() }, nil
}

// logMetrics writes the store counters for this run at debug level.
func logMetrics(g prometheus.Gatherer) {
	summary, err := storage.Summary(g)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to collect store metrics")
		return
	}
	if len(summary) == 0 {
		return
	}
	ev := logger.Debug()
	for name, v := range summary {
		ev = ev.Float64(name, v)
	}
	ev.Msg("store metrics")
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "commands":
		return a.commands(args[1:])
	case "save":
		return a.save(ctx, args[1:])
	case "find":
		return a.find(ctx, args[1:])
	case "exists":
		return a.exists(ctx, args[1:])
	case "apply":
		return a.apply(ctx, args[1:])
	default:
		return errUsage
	}
}

func (a *app) commands(args []string) error {
	fs, model := modelFlags("commands")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	e, err := a.readEntity(*model, fs.Args(), false)
	if err != nil {
		return err
	}
	cmds, err := core.Serialize(e)
	if err != nil {
		return err
	}
	for _, line := range core.Wire(cmds) {
		fmt.Fprintln(a.stdout, line)
	}
	return nil
}

func (a *app) save(ctx context.Context, args []string) error {
	fs, model := modelFlags("save")
	generateID := fs.Bool("generate-id", false, "assign a random uuid when the object has no id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	e, err := a.readEntity(*model, fs.Args(), *generateID)
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, e); err != nil {
		return err
	}

	logger.Info().Str("model", *model).Str("id", e.ID()).Msg("saved")
	fmt.Fprintln(a.stdout, e.ID())
	return nil
}

func (a *app) find(ctx context.Context, args []string) error {
	fs, model := modelFlags("find")
	if err := fs.Parse(args); err != nil || *model == "" {
		return errUsage
	}

	finder, err := core.NewFinder(a.models.Model(*model), a.store)
	if err != nil {
		return err
	}
	ids := make([]any, 0, fs.NArg())
	for _, id := range fs.Args() {
		ids = append(ids, id)
	}
	res, err := finder.Find(ctx, ids...)
	if err != nil {
		return err
	}

	var out any
	if one, ok := res.One(); ok {
		out = entityJSON(one)
	} else {
		list := make([]any, 0, res.Len())
		for _, e := range res.All() {
			list = append(list, entityJSON(e))
		}
		out = list
	}

	data, err := sonic.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Fprintln(a.stdout, string(data))
	return nil
}

func (a *app) exists(ctx context.Context, args []string) error {
	fs, model := modelFlags("exists")
	if err := fs.Parse(args); err != nil || *model == "" || fs.NArg() != 1 {
		return errUsage
	}

	finder, err := core.NewFinder(a.models.Model(*model), a.store)
	if err != nil {
		return err
	}
	ok, err := finder.Exists(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, ok)
	return nil
}

func (a *app) apply(ctx context.Context, args []string) error {
	in, closeIn, err := a.input(args)
	if err != nil {
		return err
	}
	defer closeIn()

	var cmds []pkg.Command
	scanner := bufio.NewScanner(in)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, err := pkg.ParseCommand(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}

	if err := a.store.ExecuteAll(ctx, cmds); err != nil {
		return err
	}
	logger.Info().Int("commands", len(cmds)).Msg("applied")
	return nil
}

func modelFlags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	model := fs.String("model", "", "model name, e.g. Widget")
	return fs, model
}

func (a *app) input(args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return a.stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	return f, func() { f.Close() }, nil
}

func (a *app) readEntity(model string, args []string, generateID bool) (*core.Entity, error) {
	if model == "" {
		return nil, errUsage
	}
	in, closeIn, err := a.input(args)
	if err != nil {
		return nil, err
	}
	defer closeIn()

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read attributes: %w", err)
	}
	attrs := core.NewAttributes()
	if err := attrs.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidInputKind, err)
	}
	if _, ok := attrs.Get(core.IDAttribute); !ok && generateID {
		attrs.Set(core.IDAttribute, uuid.NewString())
	}

	return core.NewEntity(a.models.Model(model), attrs)
}

func entityJSON(e *core.Entity) *orderedmap.OrderedMap[string, any] {
	out := orderedmap.New[string, any]()
	for _, f := range e.Fields() {
		out.Set(f.Name, f.Value)
	}
	return out
}
