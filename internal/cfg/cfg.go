package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/logger"
	"github.com/jimlawless/whereami"
)

const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	Discord *DiscordCfg
	Store   *StoreCfg
	Ticket  *TicketCfg
	Http    *HTTPConfig
	Grpc    *GRPCConfig
	Db      *PGDBCfg  // nil, если STORE_DRIVER != postgres
	Redis   *RedisCfg // nil, если корзины хранятся в памяти
	Kafka   *KafkaCfg // nil, если события не публикуются
	Minio   *MinIOCfg // nil, если изображения не зеркалируются
}

type DiscordCfg struct {
	Token            string
	ApplicationID    string
	GuildID          string
	AdminRoleID      string
	SalesCategoryID  string
	RegisterCommands bool
}

type StoreCfg struct {
	Driver       string
	Path         string // путь к JSON-документу для file
	DocumentName string // ключ строки documents для postgres
}

type TicketCfg struct {
	CloseDelay     time.Duration
	NamePrefix     string
	CommandTimeout time.Duration // таймаут обработки одного события
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
}

type PGDBCfg struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
	MaxConns       int // весь каталог лежит в одной строке, большой пул не нужен
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	CartTTL     time.Duration
	KeyPrefix   string // пространство имён ключей бота в общей базе Redis
}

type KafkaCfg struct {
	Topic        string
	Brokers      []string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Бакет для зеркалируемых изображений
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	PublicBaseURL     string // Базовый URL, по которому Discord скачивает изображения
	MaxImageSize      int64
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	discord, err := loadDiscordCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	store, err := loadStoreCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ticket, err := loadTicketCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var db *PGDBCfg
	if store.Driver == StoreDriverPostgres {
		db, err = loadPGDBCfg(log)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Discord: discord,
		Store:   store,
		Ticket:  ticket,
		Http:    http,
		Grpc:    loadGRPCConfig(),
		Db:      db,
		Redis:   redis,
		Kafka:   kafka,
		Minio:   minio,
	}, nil
}

func loadDiscordCfg(log logger.Logger) (*DiscordCfg, error) {
	values := make(map[string]string, 5)
	for _, key := range []string{"DISCORD_TOKEN", "CLIENT_ID", "GUILD_ID", "ADMIN_ROLE_ID", "SALES_CATEGORY_ID"} {
		v, err := requireEnv(log, key)
		if err != nil {
			return nil, err
		}
		values[key] = v
	}

	register, err := strconv.ParseBool(getEnvOrDefault("REGISTER_COMMANDS", "true"))
	if err != nil {
		log.Errorf(err, "invalid REGISTER_COMMANDS")
		return nil, e.Wrap("REGISTER_COMMANDS", e.ErrIncorrectEnvVariable)
	}

	return &DiscordCfg{
		Token:            values["DISCORD_TOKEN"],
		ApplicationID:    values["CLIENT_ID"],
		GuildID:          values["GUILD_ID"],
		AdminRoleID:      values["ADMIN_ROLE_ID"],
		SalesCategoryID:  values["SALES_CATEGORY_ID"],
		RegisterCommands: register,
	}, nil
}

func loadStoreCfg(log logger.Logger) (*StoreCfg, error) {
	const (
		defaultDriver       = StoreDriverFile
		defaultPath         = "db.json"
		defaultDocumentName = "store"
	)

	driver := strings.ToLower(getEnvOrDefault("STORE_DRIVER", defaultDriver))
	if driver != StoreDriverFile && driver != StoreDriverPostgres {
		err := fmt.Errorf("%w: %s", e.ErrUnknownStoreDriver, driver)
		log.Errorf(err, "invalid STORE_DRIVER")
		return nil, err
	}

	return &StoreCfg{
		Driver:       driver,
		Path:         getEnvOrDefault("DB_PATH", defaultPath),
		DocumentName: getEnvOrDefault("DOCUMENT_NAME", defaultDocumentName),
	}, nil
}

func loadTicketCfg(log logger.Logger) (*TicketCfg, error) {
	const (
		defaultCloseDelay     = 5 * time.Second
		defaultNamePrefix     = "ticket-"
		defaultCommandTimeout = 15 * time.Second
	)

	closeDelay, err := parseDurationEnv("TICKET_CLOSE_DELAY", defaultCloseDelay)
	if err != nil {
		log.Errorf(err, "invalid TICKET_CLOSE_DELAY")
		return nil, err
	}

	commandTimeout, err := parseDurationEnv("COMMAND_TIMEOUT", defaultCommandTimeout)
	if err != nil {
		log.Errorf(err, "invalid COMMAND_TIMEOUT")
		return nil, err
	}

	return &TicketCfg{
		CloseDelay:     closeDelay,
		NamePrefix:     getEnvOrDefault("TICKET_NAME_PREFIX", defaultNamePrefix),
		CommandTimeout: commandTimeout,
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

func loadGRPCConfig() *GRPCConfig {
	const (
		defaultPort        = "8091"
		defaultNetworkMode = "tcp"
	)

	return &GRPCConfig{
		Port:        getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
	}
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost           = "localhost"
		defaultPort           = "5432"
		defaultSSLMode        = "disable"
		defaultMigrationsPath = "db/migrations"
		defaultMaxConns       = 4
	)

	maxConns, err := parseIntEnv("POSTGRES_MAX_CONNS", defaultMaxConns)
	if err != nil || maxConns <= 0 {
		log.Errorf(e.ErrIncorrectEnvVariable, "invalid POSTGRES_MAX_CONNS")
		return nil, e.ErrIncorrectEnvVariable
	}

	user, err := requireEnv(log, "POSTGRES_USER")
	if err != nil {
		return nil, err
	}

	password, err := requireEnv(log, "POSTGRES_PASSWORD")
	if err != nil {
		return nil, err
	}

	dbName, err := requireEnv(log, "POSTGRES_DB")
	if err != nil {
		return nil, err
	}

	return &PGDBCfg{
		Host:           getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:           getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:           user,
		Password:       password,
		DBName:         dbName,
		SSLMode:        getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
		MaxConns:       maxConns,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultCartTTL      = 24 * time.Hour
		defaultKeyPrefix    = "pixshop"
	)

	addr := getEnv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}

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

	cartTTL, err := parseDurationEnv("CART_TTL", defaultCartTTL)
	if err != nil {
		log.Errorf(err, "invalid CART_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        addr,
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		CartTTL:     cartTTL,
		KeyPrefix:   getEnvOrDefault("REDIS_KEY_PREFIX", defaultKeyPrefix),
	}, nil
}

func loadKafkaCfg(log logger.Logger) (*KafkaCfg, error) {
	const (
		defaultBatchTimeout = 500 * time.Millisecond
		defaultWriteTimeout = 10 * time.Second
	)

	brokerStr := getEnv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, nil
	}
	brokers := strings.Split(brokerStr, ",")

	topic, err := requireEnv(log, "KAFKA_TOPIC")
	if err != nil {
		return nil, err
	}

	batchTimeout, err := parseDurationEnv("KAFKA_BATCH_TIMEOUT", defaultBatchTimeout)
	if err != nil {
		log.Errorf(err, "invalid KAFKA_BATCH_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("KAFKA_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid KAFKA_WRITE_TIMEOUT")
		return nil, err
	}

	return &KafkaCfg{
		Brokers:      brokers,
		Topic:        topic,
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL       = false
		defaultBucketName   = "store-images"
		defaultMaxImageSize = 8 << 20
	)

	endpoint := getEnv("MINIO_ENDPOINT")
	if endpoint == "" {
		return nil, nil
	}

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &MinIOCfg{
		MinioEndpoint:     endpoint,
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucketName),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		PublicBaseURL:     strings.TrimRight(getEnvOrDefault("MINIO_PUBLIC_URL", scheme+"://"+endpoint), "/"),
		MaxImageSize:      defaultMaxImageSize,
	}, nil
}

// requireEnv возвращает значение обязательной переменной окружения.
func requireEnv(log logger.Logger, key string) (string, error) {
	v := strings.TrimSpace(getEnv(key))
	if v == "" {
		err := e.Wrap(key, e.ErrMissingEnvVariable)
		log.Errorf(err, "missing %s", key)
		return "", err
	}

	return v, nil
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
