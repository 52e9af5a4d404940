package doctorcmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/indaco/vdocs/internal/clix"
	"github.com/indaco/vdocs/internal/config"
	"github.com/indaco/vdocs/internal/doctor"
	"github.com/indaco/vdocs/internal/printer"
)

// Run returns the "doctor" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "doctor",
		Aliases:   []string{"check"},
		Usage:     "Validate the docs tree, manifest and generated pages",
		UsageText: "vdocs doctor",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runDoctorCmd(ctx, cmd, cfg)
		},
	}
}

func runDoctorCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	execCtx, err := clix.GetExecutionContext(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	validator := doctor.NewValidator(execCtx.FS, execCtx.DocsDir, execCtx.Config.Matcher())
	results, err := validator.Validate(ctx)
	if err != nil {
		return err
	}

	fmt.Print(formatResults(results))

	if doctor.HasErrors(results) {
		return fmt.Errorf("docs tree has %d problem(s)", doctor.ErrorCount(results))
	}
	return nil
}

func formatResults(results []doctor.ValidationResult) string {
	var sb strings.Builder

	sb.WriteString(printer.Info("Docs Tree Checks"))
	sb.WriteString("\n")
	sb.WriteString(printer.Faint(strings.Repeat("-", 60)))
	sb.WriteString("\n")

	for _, r := range results {
		var mark string
		switch {
		case !r.Passed:
			mark = printer.Check(false, r.Category)
		case r.Warning:
			mark = printer.Caution(r.Category)
		default:
			mark = printer.Check(true, r.Category)
		}
		fmt.Fprintf(&sb, "%s: %s\n", mark, r.Message)
	}

	sb.WriteString(printer.Faint(strings.Repeat("-", 60)))
	sb.WriteString("\n")

	errs, warns := doctor.ErrorCount(results), doctor.WarningCount(results)
	switch {
	case errs > 0:
		sb.WriteString(printer.Error(fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)))
	case warns > 0:
		sb.WriteString(printer.Warning(fmt.Sprintf("No errors, %d warning(s)", warns)))
	default:
		sb.WriteString(printer.Success("All checks passed"))
	}
	sb.WriteString("\n")
	return sb.String()
}
