package config

import (
	"crypto/tls"
	"time"

	"github.com/segmentio/kafka-go/sasl/plain"
)

type HttpApiConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

type LedgerConfig struct {
	SandboxURL string        `mapstructure:"sandbox_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// JournalConfig selects the audit journal backend. Backend is "file",
// "kafka" or "none"; the kafka fields only apply to the kafka backend.
type JournalConfig struct {
	Backend       string `mapstructure:"backend"`
	FilePath      string `mapstructure:"file_path"`
	LockFilePath  string `mapstructure:"lock_file_path"`
	KafkaDSN      string `mapstructure:"kafka_dsn"`
	Topic         string `mapstructure:"topic"`
	ConsumerGroup string `mapstructure:"consumer_group"`

	TlsConfig           *tls.Config
	ProducerCredentials *plain.Mechanism
	ConsumerCredentials *plain.Mechanism
	Timeout             time.Duration `mapstructure:"timeout"`
}

type Config struct {
	Username   string `mapstructure:"username"`
	StateDBDSN string `mapstructure:"state_dbdsn"`

	// Threshold is the number of approvals required before an execution
	// attempt is even submitted. Zero disables the local check and lets
	// the remote contract be the only judge.
	Threshold int `mapstructure:"threshold"`

	HttpApiConfig *HttpApiConfig `mapstructure:"http_api_config"`
	LedgerConfig  *LedgerConfig  `mapstructure:"ledger_config"`
	JournalConfig *JournalConfig `mapstructure:"journal_config"`
}
