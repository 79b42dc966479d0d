package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuispeak/internal/config"
	"github.com/verte-zerg/tuispeak/internal/events"
	"github.com/verte-zerg/tuispeak/internal/logging"
	"github.com/verte-zerg/tuispeak/internal/server"
)

const defaultServeAddr = ":8080"

var (
	serveAddr         string
	serveReadTimeout  time.Duration
	serveWriteTimeout time.Duration
	serveKafka        bool
	serveKafkaBrokers []string
	serveKafkaTopic   string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().DurationVar(&serveReadTimeout, "read-timeout", 5*time.Second, "HTTP read timeout")
	cmd.Flags().DurationVar(&serveWriteTimeout, "write-timeout", 10*time.Second, "HTTP write timeout")
	cmd.Flags().BoolVar(&serveKafka, "kafka", false, "publish analysis events to Kafka")
	cmd.Flags().StringSliceVar(&serveKafkaBrokers, "kafka-brokers", nil, "Kafka broker addresses (implies --kafka)")
	cmd.Flags().StringVar(&serveKafkaTopic, "kafka-topic", events.DefaultTopic, "Kafka topic for analysis events")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	initLogging(cmd, fileCfg, os.Stderr)
	logger := logging.WithComponent("serve")

	cfg, err := resolvePracticeConfig(cmd, fileCfg)
	if err != nil {
		return err
	}

	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyDurationConfig(cmd, "read-timeout", &serveReadTimeout, fileCfg.Server.ReadTimeout)
	applyDurationConfig(cmd, "write-timeout", &serveWriteTimeout, fileCfg.Server.WriteTimeout)
	kafkaCfg := resolveKafkaConfig(cmd, fileCfg.Kafka)

	st := openCatalog()
	defer closeCatalog(st)

	publisher := events.New(kafkaCfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close publisher")
		}
	}()

	source := phonemeSource(cfg, st)
	srv := server.New(server.Config{
		Addr:         serveAddr,
		ReadTimeout:  serveReadTimeout,
		WriteTimeout: serveWriteTimeout,
		DefaultText:  cfg.Text,
	}, newAnalyzer(cfg, source), source, publisher)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info().Msg("Server stopped")
	return nil
}

// resolveKafkaConfig merges [kafka] under the flags. Brokers given on the
// command line enable publishing unless --kafka is set explicitly.
func resolveKafkaConfig(cmd *cobra.Command, fileCfg config.KafkaConfig) *events.Config {
	applyBoolConfig(cmd, "kafka", &serveKafka, fileCfg.Enabled)
	applyStringSliceConfig(cmd, "kafka-brokers", &serveKafkaBrokers, fileCfg.Brokers)
	applyStringConfig(cmd, "kafka-topic", &serveKafkaTopic, fileCfg.Topic)

	enabled := serveKafka
	if cmd.Flags().Changed("kafka-brokers") && !cmd.Flags().Changed("kafka") {
		enabled = true
	}
	return &events.Config{
		Brokers: serveKafkaBrokers,
		Topic:   serveKafkaTopic,
		Enabled: enabled,
	}
}
