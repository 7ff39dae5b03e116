package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/prodseal/go-backend/pkg/e"
	"github.com/prodseal/go-backend/pkg/logger"
)

type Config struct {
	Http   *HTTPConfig
	Db     *PGDBCfg
	Minio  *MinIOCfg
	Redis  *RedisCfg
	Kafka  *KafkaCfg
	Smtp   *SMTPCfg
	Cert   *CertCfg
	Worker *WorkerCfg
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Бакет с артефактами сертификатов
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	VerifyTTL   time.Duration // TTL кэша верификации сертификатов
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type SMTPCfg struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// CertCfg — параметры выпуска сертификатов.
type CertCfg struct {
	BaseURL    string        // Публичный адрес сервиса, основа verify-ссылок
	SealPrefix string        // Префикс номера печати (PS)
	SignTTL    time.Duration // Срок жизни подписанных ссылок на артефакты
}

// WorkerCfg — параметры драйверов обработки заданий завершения.
type WorkerCfg struct {
	PollInterval time.Duration // Период опроса очереди polling-драйвером
	BatchLimit   int           // Размер пакета по умолчанию для cron-триггера
	BatchMax     int           // Жёсткий потолок размера пакета
	StepTimeout  time.Duration // Таймаут на один внешний вызов шага конвейера
	RenderPool   int           // Размер пула рендереров
	CronToken    string        // Bearer-токен cron-триггера
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	smtp, err := loadSMTPCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cert, err := loadCertCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	worker, err := loadWorkerCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:   http,
		Db:     db,
		Minio:  minio,
		Redis:  redis,
		Kafka:  kafka,
		Smtp:   smtp,
		Cert:   cert,
		Worker: worker,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnv("BUCKET_NAME"),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultVerifyTTL    = 10 * time.Minute
	)

	addr := getEnvOrDefault("REDIS_ADDR", defaultAddr)
	password := getEnv("REDIS_PASSWORD")
	user := getEnv("REDIS_USER")

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	verifyTTL, err := parseDurationEnv("VERIFY_TTL", defaultVerifyTTL)
	if err != nil {
		log.Errorf(err, "invalid VERIFY_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        addr,
		Password:    password,
		User:        user,
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		VerifyTTL:   verifyTTL,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	brokers := strings.Split(brokerStr, ",")

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		return nil, fmt.Errorf("KAFKA_TOPIC environment variable is required")
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	networkMode := getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode)

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             topic,
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       networkMode,
	}, nil
}

func loadSMTPCfg() (*SMTPCfg, error) {
	const defaultPort = 587

	host := getEnv("SMTP_HOST")
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST environment variable is required")
	}

	port, err := parseIntEnv("SMTP_PORT", defaultPort)
	if err != nil {
		return nil, e.Wrap("SMTP_PORT", err)
	}

	from := getEnv("SMTP_FROM")
	if from == "" {
		return nil, fmt.Errorf("SMTP_FROM environment variable is required")
	}

	return &SMTPCfg{
		Host:     host,
		Port:     port,
		User:     getEnv("SMTP_USER"),
		Password: getEnv("SMTP_PASSWORD"),
		From:     from,
	}, nil
}

func loadCertCfg() (*CertCfg, error) {
	const (
		defaultSealPrefix = "PS"
		defaultSignTTL    = 24 * time.Hour
	)

	baseURL := getEnv("CERT_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("CERT_BASE_URL environment variable is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	signTTL, err := parseDurationEnv("CERT_SIGN_TTL", defaultSignTTL)
	if err != nil {
		return nil, e.Wrap("CERT_SIGN_TTL", err)
	}

	return &CertCfg{
		BaseURL:    baseURL,
		SealPrefix: getEnvOrDefault("CERT_SEAL_PREFIX", defaultSealPrefix),
		SignTTL:    signTTL,
	}, nil
}

func loadWorkerCfg(log logger.Logger) (*WorkerCfg, error) {
	const (
		defaultPollInterval = 15 * time.Second
		defaultBatchLimit   = 3
		defaultBatchMax     = 10
		defaultStepTimeout  = 30 * time.Second
		defaultRenderPool   = 2
	)

	pollInterval, err := parseDurationEnv("WORKER_POLL_INTERVAL", defaultPollInterval)
	if err != nil {
		log.Errorf(err, "invalid WORKER_POLL_INTERVAL")
		return nil, err
	}

	batchLimit, err := parseIntEnv("WORKER_BATCH_LIMIT", defaultBatchLimit)
	if err != nil {
		return nil, e.Wrap("WORKER_BATCH_LIMIT", err)
	}

	batchMax, err := parseIntEnv("WORKER_BATCH_MAX", defaultBatchMax)
	if err != nil {
		return nil, e.Wrap("WORKER_BATCH_MAX", err)
	}

	stepTimeout, err := parseDurationEnv("WORKER_STEP_TIMEOUT", defaultStepTimeout)
	if err != nil {
		log.Errorf(err, "invalid WORKER_STEP_TIMEOUT")
		return nil, err
	}

	renderPool, err := parseIntEnv("RENDER_POOL_SIZE", defaultRenderPool)
	if err != nil {
		return nil, e.Wrap("RENDER_POOL_SIZE", err)
	}

	token := getEnv("CRON_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("CRON_TOKEN environment variable is required")
	}

	return &WorkerCfg{
		PollInterval: pollInterval,
		BatchLimit:   batchLimit,
		BatchMax:     batchMax,
		StepTimeout:  stepTimeout,
		RenderPool:   renderPool,
		CronToken:    token,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
