package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mverdi/loadburst/internal/config"
)

// confirmRun is the gate in front of any traffic. It restates the run
// parameters and requires an explicit yes; anything else aborts.
func confirmRun(in io.Reader, out io.Writer, cfg config.Config) (bool, error) {
	fmt.Fprintln(out, "About to generate load. Only target systems you are authorized to test.")
	fmt.Fprintf(out, "  Target:  %s\n", cfg.TargetURL)
	fmt.Fprintf(out, "  Units:   %d\n", cfg.Concurrency)
	fmt.Fprintf(out, "  Total:   %d requests\n", cfg.TotalRequests)
	fmt.Fprintf(out, "  Rate:    %d req/s\n", cfg.TargetRPS)
	fmt.Fprint(out, "Start the run? [y/N]: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		// EOF with no answer counts as a refusal, not a failure.
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
