package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spoolworks/labelpress/layout"
	"github.com/spoolworks/labelpress/template"
)

// newCheckCmd creates the check command. Unlike render it decodes the
// template without validation so structural problems surface as blocking
// findings instead of a bare decode error.
func newCheckCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check <template.json>",
		Short: "Run the layout checker and report findings",
		Long: `Check reports constraint findings without rendering or saving anything.
Advisory findings mean reduced print fidelity the designer may accept;
blocking findings mean the template cannot render. The exit status is
non-zero for blocking findings, and with --strict for any finding at all.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), args[0], strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero on any finding")
	return cmd
}

func runCheck(w io.Writer, path string, strict bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var l template.Layout
	if err := json.NewDecoder(f).Decode(&l); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	findings := layout.Check(&l)
	if len(findings) == 0 {
		fmt.Fprintln(w, styleSuccess.Render(iconSuccess+" layout is clean"))
		return nil
	}

	advisory, blocking := 0, 0
	for _, fd := range findings {
		fmt.Fprintln(w, formatFinding(fd))
		if fd.Severity == layout.SeverityBlocking {
			blocking++
		} else {
			advisory++
		}
	}
	fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("%d advisory, %d blocking", advisory, blocking)))

	if blocking > 0 {
		return fmt.Errorf("layout has %d blocking finding(s)", blocking)
	}
	if strict {
		return fmt.Errorf("layout has %d finding(s)", advisory)
	}
	return nil
}
