package models

import "time"

// Config represents the application configuration
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Chains       ChainsConfig
	Upstream     UpstreamConfig
	CoinPayments CoinPaymentsConfig
	Payment      PaymentConfig
	Audit        AuditConfig
	Formance     FormanceConfig
	Prime        PrimeConfig
	LogLevel     string
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	MetricsEnabled  bool
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// ChainsConfig lists the chains enabled at startup and the file they came from
type ChainsConfig struct {
	File    string
	Enabled []ChainSettings
}

// ChainSettings describes one enabled chain
type ChainSettings struct {
	Chain        ChainID
	Network      string // mainnet or testnet
	PrimeNetwork string // network id used for custodial deposit addresses
}

// UpstreamConfig holds endpoints for nodes and block explorers
type UpstreamConfig struct {
	Timeout           time.Duration
	EthRPCURL         string
	EthChainID        int64
	BlockchainInfoURL string
	EsploraURL        string
	BlockCypherURL    string
	DefaultFeeRate    int64 // sat/vB used when the fee estimator is unreachable
}

// CoinPaymentsConfig holds payment gateway credentials
type CoinPaymentsConfig struct {
	APIURL     string
	PublicKey  string
	PrivateKey string
}

// PaymentConfig holds payment session settings
type PaymentConfig struct {
	BaseURL  string
	ItemName string
}

// AuditConfig selects the audit log backend
type AuditConfig struct {
	Backend string // sqlite or formance
}

// FormanceConfig holds Formance Stack connection settings
type FormanceConfig struct {
	StackURL     string
	ClientID     string
	ClientSecret string
	LedgerName   string
}

// PrimeConfig holds Coinbase Prime credentials for custodial wallets
type PrimeConfig struct {
	AccessKey  string
	Passphrase string
	SigningKey string
	Networks   map[ChainID]string
}

// Enabled reports whether all Prime credentials are present.
func (p PrimeConfig) Enabled() bool {
	return p.AccessKey != "" && p.Passphrase != "" && p.SigningKey != ""
}
