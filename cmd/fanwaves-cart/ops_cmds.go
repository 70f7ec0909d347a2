package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	healthcheck "github.com/vladislavdragonenkov/fanwaves/internal/health"
	"github.com/vladislavdragonenkov/fanwaves/internal/version"
)

const shellPrompt = "fanwaves> "

func newDoctorCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run health checks for storage and checkout hand-off",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			report := c.rt.Health.Report()
			if err := writeJSON(c.out, report); err != nil {
				return err
			}
			if report.Status == healthcheck.StatusUnhealthy {
				return fmt.Errorf("health status: %s", report.Status)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoRuntime: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}

// newShellCmd запускает интерактивную сессию: все строки работают с одной корзиной,
// поэтому купон и способ доставки живут до выхода из shell.
func newShellCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session sharing one cart (serves /metrics with --metrics-addr)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			var wg sync.WaitGroup
			defer func() {
				cancel()
				wg.Wait()
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := c.rt.ServeOps(ctx); err != nil {
					c.rt.Logger.WithError(err).Warn("ops server is not available")
				}
			}()

			scanner := bufio.NewScanner(c.in)
			_, _ = fmt.Fprint(c.out, shellPrompt)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
				case "exit", "quit":
					return nil
				default:
					if err := c.execLine(ctx, line); err != nil {
						_, _ = fmt.Fprintln(c.errOut, "error:", err)
					}
				}
				if ctx.Err() != nil {
					return nil
				}
				_, _ = fmt.Fprint(c.out, shellPrompt)
			}
			return scanner.Err()
		},
	}
}

// execLine выполняет одну строку shell свежим деревом команд: значения флагов
// не переносятся между строками, а корзина общая.
func (c *cli) execLine(ctx context.Context, line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) > 0 && args[0] == "shell" {
		return errors.New("already in shell")
	}

	root := newRootCmd(c)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// splitArgs делит строку по пробелам, учитывая двойные и одинарные кавычки.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inToken bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				args = append(args, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated quote")
	}
	if inToken {
		args = append(args, current.String())
	}
	return args, nil
}
