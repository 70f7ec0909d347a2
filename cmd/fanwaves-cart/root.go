package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vladislavdragonenkov/fanwaves/internal/app"
)

const (
	envPrefix = "FANWAVES"
	// annotationNoRuntime помечает команды, которым не нужна корзина.
	annotationNoRuntime = "fanwaves/no-runtime"
)

type openFunc func(ctx context.Context, cfg app.Config, out io.Writer, logger *log.Entry) (*app.Runtime, error)

// cli: состояние процесса, общее для всех команд (и для строк shell).
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	open   openFunc
	rt     *app.Runtime
}

func newCLI(in io.Reader, out, errOut io.Writer) *cli {
	return &cli{in: in, out: out, errOut: errOut, open: app.Open}
}

func (c *cli) close() error {
	if c.rt == nil {
		return nil
	}
	err := c.rt.Close()
	c.rt = nil
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	v := viper.New()
	defaults := app.DefaultConfig()

	root := &cobra.Command{
		Use:           "fanwaves-cart",
		Short:         "Fan Waves cart: line items, totals and checkout hand-off",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.rt != nil || cmd.Annotations[annotationNoRuntime] == "true" {
				return nil
			}
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			logger := setupLogger(c.errOut, cfg.LogLevel)
			rt, err := c.open(cmd.Context(), cfg, c.out, logger.WithField("component", "app"))
			if err != nil {
				return err
			}
			c.rt = rt
			return nil
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.SetIn(c.in)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("storage", defaults.StorageDriver, "snapshot storage: memory|file|postgres|redis")
	flags.String("storage-path", defaults.StoragePath, "directory for the file storage")
	flags.String("cart-key", defaults.CartKey, "snapshot slot key")
	flags.String("postgres-dsn", "", "PostgreSQL DSN for the postgres storage")
	flags.Bool("postgres-auto-migrate", defaults.PostgresAutoMigrate, "apply migrations on start")
	flags.String("redis-addr", "", "Redis address for the redis storage")
	flags.String("redis-password", "", "Redis password")
	flags.Int("redis-db", 0, "Redis database")
	flags.Duration("redis-ttl", 0, "snapshot TTL in Redis (0 = keep forever)")
	flags.String("kafka-brokers", "", "comma separated Kafka brokers for checkout hand-off")
	flags.String("checkout-topic", defaults.CheckoutTopic, "Kafka topic for checkout hand-off")
	flags.String("metrics-addr", "", "ops server address for the shell (/metrics, /healthz)")
	flags.String("metrics-file", "", "write Prometheus textfile metrics on exit")
	flags.String("log-level", defaults.LogLevel, "log level: debug|info|warn|error")

	if err := v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newAddCmd(c),
		newUpdateCmd(c),
		newRemoveCmd(c),
		newClearCmd(c),
		newShowCmd(c),
		newShipToCmd(c),
		newBillToCmd(c),
		newPaymentCmd(c),
		newNoteCmd(c),
		newCouponCmd(c),
		newShippingMethodCmd(c),
		newOpenCmd(c),
		newCloseCmd(c),
		newToggleCmd(c),
		newCheckoutCmd(c),
		newDoctorCmd(c),
		newShellCmd(c),
		newVersionCmd(),
	)
	return root
}

// loadConfig собирает app.Config: флаг > переменная FANWAVES_* > файл > значение по умолчанию.
func loadConfig(v *viper.Viper) (app.Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return app.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	return app.Config{
		StorageDriver:       v.GetString("storage"),
		StoragePath:         v.GetString("storage-path"),
		CartKey:             v.GetString("cart-key"),
		PostgresDSN:         v.GetString("postgres-dsn"),
		PostgresAutoMigrate: v.GetBool("postgres-auto-migrate"),
		RedisAddr:           v.GetString("redis-addr"),
		RedisPassword:       v.GetString("redis-password"),
		RedisDB:             v.GetInt("redis-db"),
		RedisTTL:            v.GetDuration("redis-ttl"),
		KafkaBrokers:        v.GetString("kafka-brokers"),
		CheckoutTopic:       v.GetString("checkout-topic"),
		MetricsAddr:         v.GetString("metrics-addr"),
		MetricsFile:         v.GetString("metrics-file"),
		LogLevel:            v.GetString("log-level"),
	}, nil
}

// setupLogger настраивает формат и уровень логирования. Неизвестный уровень: info.
func setupLogger(w io.Writer, level string) *log.Logger {
	logger := log.New()
	logger.SetOutput(w)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	parsed, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		parsed = log.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}
