// Command fanwaves-cart управляет корзиной Fan Waves из терминала: строки,
// поля оформления, итоги и передача корзины на оформление.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fanwaves/internal/config"
)

func main() {
	if _, err := config.LoadDotEnv(""); err != nil {
		log.WithError(err).Warn("failed to load .env files")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run выполняет одну команду и закрывает открытые ею зависимости.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) (err error) {
	c := newCLI(in, out, errOut)
	defer func() {
		if closeErr := c.close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	root := newRootCmd(c)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
