package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/arnestad/mdxpress/internal"
	"github.com/arnestad/mdxpress/internal/manifest"
	"github.com/arnestad/mdxpress/internal/mcpserver"
	"github.com/arnestad/mdxpress/internal/push"
	"github.com/arnestad/mdxpress/internal/storage"
	pkgconfig "github.com/arnestad/mdxpress/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// buildPusher assembles the storage providers, manifest, and pusher shared
// by the one-shot push and MCP commands. The caller must close the manifest.
func buildPusher(cfg *internal.Config, force bool) (*push.Pusher, *manifest.DB, storage.Provider, error) {
	src, err := storage.NewFS(cfg.Source.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init source storage: %w", err)
	}
	if err := os.MkdirAll(cfg.Dest.Path, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("create dest dir: %w", err)
	}
	dst, err := storage.NewFS(cfg.Dest.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init dest storage: %w", err)
	}
	man, err := manifest.Open(cfg.Manifest.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init manifest: %w", err)
	}

	pusher := push.New(src, dst, man, nil, push.Config{
		URLPrefixBase: cfg.Publish.URLPrefixBase,
		GroupTag:      cfg.Publish.GroupTag,
		HeadingTag:    cfg.Publish.HeadingTag,
		Workers:       cfg.Publish.Workers,
		Force:         force || !cfg.Publish.Incremental,
	})
	return pusher, man, dst, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runPush(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	folder := cmd.String("folder")
	if folder == "" {
		folder = cfg.Source.Folder
	}

	pusher, man, _, err := buildPusher(cfg, cmd.Bool("force"))
	if err != nil {
		return err
	}
	defer man.Close()

	report, err := pusher.PushFolder(ctx, folder)
	if err != nil {
		return fmt.Errorf("push %s: %w", folder, err)
	}

	fmt.Printf("pushed %s (url prefix %s): %d transformed, %d copied, %d skipped\n",
		report.Folder, report.URLPrefix, report.Transformed, report.Copied, report.Skipped)
	for _, f := range report.Failures {
		fmt.Printf("  failed: %s: %s\n", f.Path, f.Message)
	}
	if report.Failed() {
		return fmt.Errorf("push finished with %d failures", len(report.Failures))
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	pusher, man, dst, err := buildPusher(cfg, false)
	if err != nil {
		return err
	}
	defer man.Close()

	return mcpserver.New(pusher, man, dst).ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:  "mdxpress",
		Usage: "Publish Markdown authoring folders as MDX site content",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the publishing server with file watching, API, and live preview",
				Action: runServe,
			},
			{
				Name:   "push",
				Usage:  "Publish a source folder once and exit",
				Action: runPush,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Folder to publish (defaults to the configured source folder)",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-publish files even if unchanged since the last push",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdin/stdout",
				Action: runMCP,
			},
		},
		Action: runServe,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
