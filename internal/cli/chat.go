package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dharanikpdb-007/Interview-practice-partners/internal/config"
	"github.com/Dharanikpdb-007/Interview-practice-partners/internal/logger"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/interview"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/provider"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an interview in the terminal",
	Long: `Run a mock interview in the terminal instead of the browser.
Commands: :upload <path> attaches a resume screenshot, :reset starts
over, :quit ends the session.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// terminalRenderer prints streamed fragments as they arrive and finishes
// the line on commit.
type terminalRenderer struct {
	out io.Writer
}

func (r *terminalRenderer) Fragment(text string) {
	fmt.Fprint(r.out, text)
}

func (r *terminalRenderer) Commit(_ string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Console logging would interleave with the streamed interview text.
	log, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   false,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	factory := &provider.Factory{}
	p, err := factory.New(provider.Profile{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	sess := interview.NewSession(p, buildPersona(cfg), log.GetZerolog())
	renderer := &terminalRenderer{out: cmd.OutOrStdout()}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Interview Practice Partner (:upload <path>, :reset, :quit)")
	fmt.Fprintln(out)

	if err := sess.Begin(cmd.Context(), renderer); err != nil {
		return fmt.Errorf("failed to begin interview: %w", err)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == ":quit" || line == ":q":
			fmt.Fprintln(out, "Good luck out there.")
			return nil

		case line == ":reset":
			sess.Reset()
			fmt.Fprintln(out, "Conversation cleared.")
			fmt.Fprintln(out)
			if err := sess.Begin(cmd.Context(), renderer); err != nil {
				return fmt.Errorf("failed to restart interview: %w", err)
			}

		case strings.HasPrefix(line, ":upload "):
			path := strings.TrimSpace(strings.TrimPrefix(line, ":upload "))
			if err := attachContext(sess, path); err != nil {
				fmt.Fprintf(out, "upload failed: %v\n", err)
			} else {
				fmt.Fprintln(out, "Context attached. The interviewer will take it into account.")
			}

		default:
			err := sess.Submit(cmd.Context(), line, renderer)
			switch err {
			case nil:
			case interview.ErrEmptyInput:
				// Blank line, nothing to send.
			default:
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}

		fmt.Fprint(out, "> ")
	}

	return scanner.Err()
}

func attachContext(sess *interview.Session, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if int64(len(data)) > interview.DefaultMaxUploadSize {
		return fmt.Errorf("file exceeds %d bytes", interview.DefaultMaxUploadSize)
	}
	return sess.LoadContext(data)
}
