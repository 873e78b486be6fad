package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sandcastle-labs/sandcastle/client/api/http_api"
	"github.com/sandcastle-labs/sandcastle/client/config"
	"github.com/sandcastle-labs/sandcastle/client/modules/keystore"
	"github.com/sandcastle-labs/sandcastle/client/modules/logger"
	"github.com/sandcastle-labs/sandcastle/client/modules/state"
	"github.com/sandcastle-labs/sandcastle/client/repositories/proposal"
	"github.com/sandcastle-labs/sandcastle/client/services/coordinator"
	"github.com/sandcastle-labs/sandcastle/client/services/wallet"
	"github.com/sandcastle-labs/sandcastle/journal"
	"github.com/sandcastle-labs/sandcastle/journal/file_journal"
	"github.com/sandcastle-labs/sandcastle/journal/kafka_journal"
	"github.com/sandcastle-labs/sandcastle/ledger"
)

const (
	flagUserName             = "username"
	flagConfigPath           = "config_path"
	flagListenHost           = "listen_host"
	flagListenPort           = "listen_port"
	flagStateDBDSN           = "state_dbdsn"
	flagThreshold            = "threshold"
	flagSandboxURL           = "sandbox_url"
	flagLedgerTimeout        = "ledger_timeout"
	flagJournalBackend       = "journal_backend"
	flagJournalPath          = "journal_path"
	flagJournalKafkaDSN      = "journal_kafka_dsn"
	flagJournalTopic         = "journal_topic"
	flagJournalConsumerGroup = "journal_consumer_group"
	flagProducerCredentials  = "producer_credentials"
	flagConsumerCredentials  = "consumer_credentials"
	flagKafkaTrustStorePath  = "kafka_truststore_path"
)

func init() {
	rootCmd.PersistentFlags().String(flagUserName, "operator", "Username")
	rootCmd.PersistentFlags().String(flagConfigPath, "", "Path to a config file (optional)")
	rootCmd.PersistentFlags().String(flagListenHost, "localhost", "Listen host")
	rootCmd.PersistentFlags().Int(flagListenPort, 8080, "Listen port")
	rootCmd.PersistentFlags().String(flagStateDBDSN, "./sandcastle_state", "State DBDSN")
	rootCmd.PersistentFlags().Int(flagThreshold, 0, "Approvals required before execution; 0 delegates the policy to the contract")
	rootCmd.PersistentFlags().String(flagSandboxURL, "http://localhost:8090", "Sandbox node URL")
	rootCmd.PersistentFlags().Duration(flagLedgerTimeout, 30*time.Second, "Ledger request timeout")
	rootCmd.PersistentFlags().String(flagJournalBackend, "file", "Audit journal backend: file, kafka or none")
	rootCmd.PersistentFlags().String(flagJournalPath, "./sandcastle_journal", "Audit journal file path")
	rootCmd.PersistentFlags().String(flagJournalKafkaDSN, "localhost:9092", "Kafka broker endpoint for the journal")
	rootCmd.PersistentFlags().String(flagJournalTopic, "decisions", "Kafka topic for the journal")
	rootCmd.PersistentFlags().String(flagJournalConsumerGroup, "sandcastle", "Kafka consumer group for the journal")
	rootCmd.PersistentFlags().String(flagProducerCredentials, "", "Producer credentials for Kafka: username:password")
	rootCmd.PersistentFlags().String(flagConsumerCredentials, "", "Consumer credentials for Kafka: username:password")
	rootCmd.PersistentFlags().String(flagKafkaTrustStorePath, "", "Path to kafka truststore")
}

var rootCmd = &cobra.Command{
	Use:   "sandcastle_d",
	Short: "multisig proposal daemon",
}

func main() {
	rootCmd.AddCommand(
		startCommand(),
		setSeedCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute root command: %v", err)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if configPath := v.GetString(flagConfigPath); configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &config.Config{
		Username:   v.GetString(flagUserName),
		StateDBDSN: v.GetString(flagStateDBDSN),
		Threshold:  v.GetInt(flagThreshold),
		HttpApiConfig: &config.HttpApiConfig{
			Host: v.GetString(flagListenHost),
			Port: v.GetInt(flagListenPort),
		},
		LedgerConfig: &config.LedgerConfig{
			SandboxURL: v.GetString(flagSandboxURL),
			Timeout:    v.GetDuration(flagLedgerTimeout),
		},
		JournalConfig: &config.JournalConfig{
			Backend:       v.GetString(flagJournalBackend),
			FilePath:      v.GetString(flagJournalPath),
			KafkaDSN:      v.GetString(flagJournalKafkaDSN),
			Topic:         v.GetString(flagJournalTopic),
			ConsumerGroup: v.GetString(flagJournalConsumerGroup),
			Timeout:       v.GetDuration(flagLedgerTimeout),
		},
	}

	producerCreds := v.GetString(flagProducerCredentials)
	consumerCreds := v.GetString(flagConsumerCredentials)
	if producerCreds != "" {
		creds, err := parseKafkaAuthCredentials(producerCreds)
		if err != nil {
			return nil, err
		}
		cfg.JournalConfig.ProducerCredentials = creds.Mechanism()
	}
	if consumerCreds != "" {
		creds, err := parseKafkaAuthCredentials(consumerCreds)
		if err != nil {
			return nil, err
		}
		cfg.JournalConfig.ConsumerCredentials = creds.Mechanism()
	}

	tlsConfig, err := kafka_journal.GetTLSConfig(v.GetString(flagKafkaTrustStorePath))
	if err != nil {
		return nil, err
	}
	cfg.JournalConfig.TlsConfig = tlsConfig

	return cfg, nil
}

func parseKafkaAuthCredentials(creds string) (*kafka_journal.KafkaAuthCredentials, error) {
	credsSplit := strings.SplitN(creds, ":", 2)
	if len(credsSplit) == 1 {
		return nil, fmt.Errorf("failed to parse kafka credentials")
	}
	return &kafka_journal.KafkaAuthCredentials{
		Username: credsSplit[0],
		Password: credsSplit[1],
	}, nil
}

func openJournal(cfg *config.JournalConfig) (journal.Journal, error) {
	switch cfg.Backend {
	case "file":
		return file_journal.NewFileJournal(cfg.FilePath)
	case "kafka":
		return kafka_journal.NewKafkaJournal(
			cfg.KafkaDSN,
			cfg.Topic,
			cfg.ConsumerGroup,
			cfg.TlsConfig,
			cfg.ProducerCredentials,
			cfg.ConsumerCredentials,
			cfg.Timeout,
		)
	case "none":
		return journal.NewNopJournal(), nil
	default:
		return nil, fmt.Errorf("unknown journal backend %q", cfg.Backend)
	}
}

func setSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set_seed [mnemonic]",
		Args:  cobra.ExactArgs(1),
		Short: "restores the registry base seed from a mnemonic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			stg, err := state.NewLevelDBState(cfg.StateDBDSN)
			if err != nil {
				return fmt.Errorf("failed to init state: %w", err)
			}

			loggerInstance := logger.NewLogger(cfg.Username)
			registry, err := keystore.NewRegistry(stg, loggerInstance)
			if err != nil {
				return fmt.Errorf("failed to init registry: %w", err)
			}

			if err := registry.SetBaseSeed(args[0]); err != nil {
				return fmt.Errorf("failed to set base seed: %w", err)
			}

			fmt.Println("base seed restored")
			return nil
		},
	}
}

func startCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "starts the sandcastle daemon",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}

			loggerInstance := logger.NewLogger(cfg.Username)

			stg, err := state.NewLevelDBState(cfg.StateDBDSN)
			if err != nil {
				log.Fatalf("Failed to init state: %v", err)
			}

			registry, err := keystore.NewRegistry(stg, loggerInstance)
			if err != nil {
				log.Fatalf("Failed to init registry: %v", err)
			}

			auditJournal, err := openJournal(cfg.JournalConfig)
			if err != nil {
				log.Fatalf("Failed to open journal: %v", err)
			}
			defer auditJournal.Close()

			ledgerClient := ledger.NewHTTPClient(cfg.LedgerConfig.SandboxURL, cfg.LedgerConfig.Timeout)

			waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Minute)
			loggerInstance.Log("Waiting for the sandbox at %s", cfg.LedgerConfig.SandboxURL)
			if err = ledgerClient.WaitReady(waitCtx); err != nil {
				waitCancel()
				log.Fatalf("Sandbox is not reachable: %v", err)
			}
			waitCancel()

			walletService := wallet.NewWalletService(stg, registry, ledgerClient, loggerInstance)
			proposalRepo := proposal.NewProposalRepo(stg, registry)
			coordinatorService := coordinator.NewCoordinatorService(
				proposalRepo,
				registry,
				walletService,
				ledgerClient,
				auditJournal,
				loggerInstance,
				cfg.Threshold,
			)

			server := &http_api.RESTApiProvider{}
			if err = server.NewServer(cfg, coordinatorService, walletService, registry, auditJournal); err != nil {
				log.Fatalf("Failed to init REST API provider: %v", err)
			}

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigs

				loggerInstance.Log("Received signal, stopping")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Stop(ctx); err != nil {
					loggerInstance.Log("Failed to stop the API server: %v", err)
				}
			}()

			loggerInstance.Log("Listening on %s:%d", cfg.HttpApiConfig.Host, cfg.HttpApiConfig.Port)
			if err = server.Start(); err != nil {
				loggerInstance.Log("API server stopped: %v", err)
			}
		},
	}
}
