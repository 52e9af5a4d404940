package open

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/clix"
	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/core"
	"github.com/indaco/vdocs/internal/loader"
	"github.com/indaco/vdocs/internal/printer"
	"github.com/indaco/vdocs/internal/render"
	"github.com/indaco/vdocs/internal/resolver"
	"github.com/indaco/vdocs/internal/site"
	"github.com/indaco/vdocs/internal/tui"
	"github.com/indaco/vdocs/internal/versionid"
)

// Seams for tests.
var (
	openBrowser   = browserOpen
	isInteractive = tui.IsInteractive
	newPrompter   = tui.DefaultPrompter
)

// Run returns the "open" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "open",
		Usage: "Open the docs of a version, counting down to the latest one like the landing page",
		UsageText: "vdocs open [--url site-url] [--delay 30s] [--print] [version]\n\n" +
			"Without a version, an interactive terminal offers a version selector; otherwise\n" +
			"the landing page countdown runs and the latest version is opened.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "Published site root (default: site_url, then the local docs directory)",
			},
			&cli.StringFlag{
				Name:  "delay",
				Usage: "Countdown before opening the latest version, e.g. 10s (default: landing.delay)",
			},
			&cli.BoolFlag{
				Name:  "print",
				Usage: "Print the address instead of launching a browser",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runOpenCmd(ctx, cmd, cfg)
		},
	}
}

func runOpenCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	execCtx, err := clix.GetExecutionContext(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	base := cmd.String("url")
	if base == "" {
		base = execCtx.Config.SiteURL
	}
	if base == "" {
		base = execCtx.DocsDir
	}
	page, err := pageURL(base)
	if err != nil {
		return err
	}

	if page.Scheme != "file" {
		base = page.String()
	}
	requested := cmd.Args().First()
	versions, err := loadVersions(ctx, execCtx, base, requested)
	if err != nil {
		return err
	}

	nav := navigator(cmd.Bool("print"))
	visit := func(version string) error {
		return openVersion(ctx, nav, page, version)
	}

	if requested != "" {
		if len(versions) > 0 && !slices.Contains(versions, requested) {
			printer.PrintWarning(fmt.Sprintf("%s is not listed in versions.json", requested))
		}
		return visit(requested)
	}

	if len(versions) > 0 && isInteractive() {
		choice, err := newPrompter().SelectVersion(ctx, "Open which version?", versions, versions[0])
		if err != nil {
			return err
		}
		return visit(choice)
	}

	delay := execCtx.Config.LandingDelay()
	if cmd.IsSet("delay") {
		if delay, err = config.ParseDuration(cmd.String("delay"), delay); err != nil {
			return fmt.Errorf("invalid --delay: %w", err)
		}
	}
	return runLanding(ctx, render.NewLanding(versions, delay), visit)
}

// loadVersions reads the landing manifest candidates relative to base.
// requested is the version the reader asked for, if any: when every
// candidate fails, the single fallback lists it alone.
func loadVersions(ctx context.Context, execCtx *clix.ExecutionContext, base, requested string) ([]string, error) {
	ld := loader.New(execCtx.Config.LandingLoaderConfig(), execCtx.Fetcher(), execCtx.Logger)

	var versions []string
	var res loader.Result
	err := tui.WithSpinner(ctx, "Loading versions...", func(ctx context.Context) error {
		var err error
		res, err = ld.Load(ctx, base, requested, func(v []string, _ string) {
			versions = v
		})
		for _, a := range res.Attempts {
			execCtx.Logger.Debug("manifest candidate failed", "location", a.Location, "error", a.Err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	switch {
	case res.FellBack:
		printer.PrintWarning(fmt.Sprintf("versions.json not found, using %s only", requested))
	case res.Exhausted:
		printer.PrintWarning("versions.json not found")
	}
	return versions, nil
}

// runLanding prints the landing page model, then counts down and opens the
// latest version.
func runLanding(ctx context.Context, landing render.Landing, visit func(version string) error) error {
	printer.PrintBold("Available versions:")
	for _, link := range landing.Links {
		if link.Latest {
			fmt.Printf("  %s %s\n", printer.Success("•"), link.Label)
			continue
		}
		fmt.Printf("  • %s\n", link.Label)
	}

	if !landing.Redirects() {
		printer.PrintWarning(landing.Banner)
		return nil
	}
	printer.PrintInfo(landing.Banner)

	var openErr error
	cd := landing.Countdown(
		func(remaining int) {
			if remaining > 0 {
				printer.PrintFaint(fmt.Sprintf("%d...", remaining))
			}
		},
		func(target string) {
			openErr = visit(strings.TrimSuffix(target, "/"))
		},
	)
	if err := cd.Run(ctx); err != nil {
		return err
	}
	return openErr
}

// openVersion navigates from the site root to version's directory, the
// same relative "<version>/" link the landing page follows.
func openVersion(ctx context.Context, nav resolver.Navigator, root *url.URL, version string) error {
	if err := versionid.Validate(version); err != nil {
		return err
	}
	target := root.ResolveReference(&url.URL{Path: version + "/"})
	return nav.Navigate(ctx, target.String())
}

// pageURL turns the site root into the address the resolver works from.
// Local directories become file:// URLs.
func pageURL(base string) (*url.URL, error) {
	if strings.Contains(base, "://") {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid site address %q: %w", base, err)
		}
		if !strings.HasSuffix(u.Path, "/") && !strings.HasSuffix(u.Path, ".html") {
			u.Path += "/"
		}
		return u, nil
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs) + "/"}, nil
}

// navigator opens targets in the browser, or prints them. Local targets
// point at the version's index page since browsers list file:// directories.
func navigator(printOnly bool) resolver.Navigator {
	return resolver.NavigatorFunc(func(ctx context.Context, target string) error {
		if strings.HasPrefix(target, "file://") {
			target += site.IndexFile
		}
		if printOnly {
			fmt.Println(target)
			return nil
		}
		printer.PrintFaint(fmt.Sprintf("Opening %s", target))
		return openBrowser(ctx, target)
	})
}

func browserOpen(ctx context.Context, target string) error {
	ctx, cancel := context.WithTimeout(ctx, core.TimeoutBrowser)
	defer cancel()

	name, args := browserCommand(runtime.GOOS, target)
	if err := exec.CommandContext(ctx, name, args...).Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return fmt.Errorf("no browser launcher found (%s); use --print: %w", name, err)
		}
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	return nil
}

// browserCommand returns the launcher for goos.
func browserCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

