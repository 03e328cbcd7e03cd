package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/playforge/refkit/pkg/cache"
	"github.com/playforge/refkit/pkg/composer"
	"github.com/playforge/refkit/pkg/config"
	"github.com/playforge/refkit/pkg/github"
	"github.com/playforge/refkit/pkg/knownrepo"
	"github.com/playforge/refkit/pkg/log"
	"github.com/playforge/refkit/pkg/templates"
)

var (
	debug   = flag.Bool("debug", false, "Enable debug logging")
	genre   = flag.String("genre", "", "Detected game genre")
	newGame = flag.Bool("new", false, "Target is a brand-new project")
)

func main() {
	flag.Parse()
	logger := log.New(*debug)

	// Parse command
	args := flag.Args()
	if len(args) < 1 {
		printUsage(logger)
		os.Exit(1)
	}

	// Handle commands
	switch args[0] {
	case "resolve":
		if len(args) < 2 {
			logger.Error("resolve requires a prompt argument")
			os.Exit(1)
		}
		if err := runResolve(logger, args[1]); err != nil {
			logger.Error("Resolution failed: %v", err)
			os.Exit(1)
		}

	case "check":
		if err := runCheck(logger); err != nil {
			logger.Error("Check failed: %v", err)
			os.Exit(1)
		}

	default:
		logger.Error("Unknown command: %s", args[0])
		printUsage(logger)
		os.Exit(1)
	}
}

func runResolve(logger *log.Logger, prompt string) error {
	env, err := config.Validate(logger)
	if err != nil {
		return err
	}

	comp, err := buildComposer(logger, env)
	if err != nil {
		return err
	}

	// Cancel the resolution on Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal: %v", sig)
		cancel()
	}()

	result := comp.Resolve(ctx, composer.Request{
		Prompt:    prompt,
		Genre:     *genre,
		IsNewGame: *newGame,
	})

	if len(result.Sources) == 0 {
		logger.Warning("No reference material found")
		return nil
	}

	logger.Success("Assembled %d chars from %d sources", result.TotalChars, len(result.Sources))
	for _, src := range result.Sources {
		logger.Ref("Source: %s", src)
	}
	os.Stdout.WriteString(result.ReferenceCode + "\n")
	return nil
}

func runCheck(logger *log.Logger) error {
	env, err := config.Validate(logger)
	if err != nil {
		return err
	}

	catalog := knownrepo.New(logger, env.KnownReposPath)
	logger.Info("Known repositories: %d", len(catalog.Entries()))
	logger.Info("Cache TTL: %s", env.CacheTTL)
	logger.Info("Reference budget: %d chars", env.ReferenceBudget)
	logger.Info("Max file size: %d bytes", env.MaxFileSize)
	if env.GitHubToken != "" {
		logger.Success("GitHub token configured")
	}
	return nil
}

func buildComposer(logger *log.Logger, env *config.Environment) (*composer.Composer, error) {
	ghClient := github.New(logger, env.GitHubToken)
	store := cache.New(env.CacheTTL)
	catalog := knownrepo.New(logger, env.KnownReposPath)
	loader := templates.NewLoader(logger, env.TemplatesDir)

	return composer.New(logger, ghClient, store, catalog, loader, env.ReferenceBudget, env.MaxFileSize)
}

func printUsage(logger *log.Logger) {
	logger.Info("Usage: refkit <command>")
	logger.Info("")
	logger.Info("Commands:")
	logger.Info("  resolve <prompt>   Assemble reference material for a prompt")
	logger.Info("  check              Validate configuration and catalog")
	logger.Info("")
	logger.Info("Flags:")
	logger.Info("  --genre <genre>    Detected game genre")
	logger.Info("  --new              Target is a brand-new project")
	logger.Info("  --debug            Enable debug logging")
}
