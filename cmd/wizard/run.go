package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/kota-mizu/skill-builder/i18n"
	"github.com/kota-mizu/skill-builder/internal/catalog"
	"github.com/kota-mizu/skill-builder/internal/client"
	"github.com/kota-mizu/skill-builder/internal/logger"
	"github.com/kota-mizu/skill-builder/internal/wizard"
	"github.com/spf13/cobra"
)

type runOptions struct {
	server      string
	lang        string
	catalogPath string
	timeout     time.Duration
	logMode     string
	noSpinner   bool
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive wizard",
		Long: `Start the interactive wizard.

Examples:
  # Use a local server
  skillwizard run

  # Use another server, in English
  skillwizard run --server http://builder.internal:8080 --lang en`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.server, "server", envOr("SKILL_SERVER", "http://localhost:8080"), "Base URL of the skill builder server")
	cmd.Flags().StringVar(&opts.lang, "lang", i18n.DetectLanguage(strings.ReplaceAll(os.Getenv("LANG"), "_", "-")), "Display language (ja, en)")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", os.Getenv("SKILL_CATALOG"), "Path to a skill catalog YAML file")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "HTTP timeout for the generate request")
	cmd.Flags().StringVar(&opts.logMode, "log-mode", "prod", "Log mode for diagnostics on stderr (dev, prod)")
	cmd.Flags().BoolVar(&opts.noSpinner, "no-spinner", false, "Disable the progress spinner")

	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func runWizard(cmd *cobra.Command, opts runOptions) error {
	if !i18n.Supported(opts.lang) {
		return fmt.Errorf("unsupported language %q", opts.lang)
	}
	cat, err := catalog.Load(opts.catalogPath)
	if err != nil {
		return err
	}
	log, err := logger.New(opts.logMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	wz := wizard.New(client.New(opts.server, opts.timeout),
		wizard.WithCatalog(cat),
		wizard.WithLogger(log.With("server", opts.server)),
	)
	s := &session{
		in:      bufio.NewScanner(cmd.InOrStdin()),
		out:     cmd.OutOrStdout(),
		wz:      wz,
		catalog: cat,
		lang:    opts.lang,
		spinner: !opts.noSpinner,
	}
	return s.run(ctx)
}

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	selectColor  = color.New(color.FgGreen, color.Bold)
	resultColor  = color.New(color.FgBlue, color.Bold)
	headingColor = color.New(color.FgHiBlack, color.Underline)
	errQuit      = errors.New("quit")
)

// session is one interactive pass over the wizard on a terminal.
type session struct {
	in      *bufio.Scanner
	out     io.Writer
	wz      *wizard.Wizard
	catalog *catalog.Catalog
	lang    string
	spinner bool
}

func (s *session) t(code string) string { return i18n.T(s.lang, code) }

func (s *session) run(ctx context.Context) error {
	titleColor.Fprintln(s.out, s.t("app_title"))
	fmt.Fprintln(s.out, s.t("app_subtitle"))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		s.printProgress()
		var err error
		switch st := s.wz.State().(type) {
		case wizard.Selecting:
			err = s.selecting(st)
		case wizard.Confirming:
			err = s.confirming(ctx, st)
		case wizard.Result:
			err = s.result(st)
		}
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *session) printProgress() {
	const width = 30
	p := s.wz.Progress()
	filled := int(p / 100 * width)
	fmt.Fprintf(s.out, "\n[%s%s] %3.0f%%\n", strings.Repeat("#", filled), strings.Repeat("-", width-filled), p)
}

func (s *session) prompt(hint string) (string, error) {
	fmt.Fprintf(s.out, "%s > ", hint)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *session) printSelection(sel []string) {
	if len(sel) == 0 {
		fmt.Fprintf(s.out, "%s: %s\n", s.t("selected"), s.t("none_selected"))
		return
	}
	fmt.Fprintf(s.out, "%s: %s\n", s.t("selected"), selectColor.Sprint(strings.Join(sel, ", ")))
}

func (s *session) selecting(st wizard.Selecting) error {
	titleColor.Fprintln(s.out, s.t("step1_title"))
	for i, tag := range s.catalog.TechSkills {
		mark := " "
		for _, sel := range st.Selected {
			if sel == tag {
				mark = "x"
				break
			}
		}
		fmt.Fprintf(s.out, "  %d) [%s] %s\n", i+1, mark, tag)
	}
	s.printSelection(st.Selected)

	line, err := s.prompt(fmt.Sprintf("1-%d / n=%s / q", len(s.catalog.TechSkills), s.t("next")))
	if err != nil {
		return err
	}
	switch strings.ToLower(line) {
	case "q":
		return errQuit
	case "n":
		return s.wz.Next()
	}
	for _, field := range strings.Fields(line) {
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > len(s.catalog.TechSkills) {
			continue
		}
		if err := s.wz.Toggle(s.catalog.TechSkills[n-1]); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) confirming(ctx context.Context, st wizard.Confirming) error {
	titleColor.Fprintln(s.out, s.t("step2_title"))
	s.printSelection(st.Selected)

	line, err := s.prompt("g=" + s.t("generate") + " / q")
	if err != nil {
		return err
	}
	switch strings.ToLower(line) {
	case "q":
		return errQuit
	case "g":
	default:
		return nil
	}

	var sp *spinner.Spinner
	if s.spinner {
		sp = spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(s.out))
		sp.Suffix = " " + s.t("thinking")
		sp.Start()
	} else {
		fmt.Fprintln(s.out, s.t("thinking"))
	}
	// Failures are logged by the wizard and the step stays on confirmation.
	_ = s.wz.RequestSuggestion(ctx)
	if sp != nil {
		sp.Stop()
	}
	return nil
}

func (s *session) result(st wizard.Result) error {
	sg := st.Suggestion
	fmt.Fprintln(s.out)
	resultColor.Fprintln(s.out, sg.Title)
	fmt.Fprintln(s.out, sg.Description)
	for _, row := range [][2]string{
		{s.t("business_goal"), sg.BusinessGoal},
		{s.t("tech_challenge"), sg.TechnicalChallenge},
		{s.t("winning_decision"), sg.WinningDecision},
	} {
		headingColor.Fprintln(s.out, row[0])
		fmt.Fprintf(s.out, "  %s\n", row[1])
	}

	line, err := s.prompt("r=" + s.t("restart") + " / q")
	if err != nil {
		return err
	}
	switch strings.ToLower(line) {
	case "q":
		return errQuit
	case "r":
		return s.wz.Restart()
	}
	return nil
}
