package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load charge le fichier .env s'il existe.
func Load() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// Config regroupe toute la configuration lue depuis l'environnement.
// Construite une seule fois dans main puis injectée — pas d'état global.
type Config struct {
	Port      string
	JWTSecret string

	MidtransServerKey  string
	MidtransProduction bool

	ScyllaHosts      []string
	ScyllaSSLEnabled bool
	ScyllaCACertPath string
	ScyllaTimeout    time.Duration
	ScyllaNumConns   int

	UsersKeyspace    KeyspaceConfig
	ProductsKeyspace KeyspaceConfig
	OrdersKeyspace   KeyspaceConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
}

// KeyspaceConfig porte les identifiants d'un keyspace ScyllaDB.
type KeyspaceConfig struct {
	Keyspace string
	Role     string
	Password string
}

func New() Config {
	return Config{
		Port:      envOr("PORT", "8080"),
		JWTSecret: envOr("JWT_SECRET", "super_secret"),

		MidtransServerKey:  os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransProduction: envBool("MIDTRANS_PRODUCTION"),

		ScyllaHosts:      strings.Split(envOr("SCYLLA_HOSTS", "127.0.0.1"), ","),
		ScyllaSSLEnabled: envBool("SCYLLA_SSL_ENABLED"),
		ScyllaCACertPath: os.Getenv("SCYLLA_SSL_CA_PATH"),
		ScyllaTimeout:    5 * time.Second,
		ScyllaNumConns:   20,

		UsersKeyspace: KeyspaceConfig{
			Keyspace: envOr("SCYLLA_KS_USERS_KEYSPACE", "ayam_users"),
			Role:     os.Getenv("SCYLLA_KS_USERS_ROLE"),
			Password: os.Getenv("SCYLLA_KS_USERS_PASSWORD"),
		},
		ProductsKeyspace: KeyspaceConfig{
			Keyspace: envOr("SCYLLA_KS_PRODUCTS_KEYSPACE", "ayam_products"),
			Role:     os.Getenv("SCYLLA_KS_PRODUCTS_ROLE"),
			Password: os.Getenv("SCYLLA_KS_PRODUCTS_PASSWORD"),
		},
		OrdersKeyspace: KeyspaceConfig{
			Keyspace: envOr("SCYLLA_KS_ORDERS_KEYSPACE", "ayam_orders"),
			Role:     os.Getenv("SCYLLA_KS_ORDERS_ROLE"),
			Password: os.Getenv("SCYLLA_KS_ORDERS_PASSWORD"),
		},

		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		ElasticURL:      envOr("ELASTIC_URL", "http://localhost:9200"),
		ElasticUser:     os.Getenv("ELASTIC_USER"),
		ElasticPassword: os.Getenv("ELASTIC_PASSWORD"),

		MinIOEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinIOAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinIOBucket:    envOr("MINIO_BUCKET", "adaayam"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     envInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     envOr("MAIL_FROM", "noreply@adaayam.id"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	return strings.ToLower(os.Getenv(key)) == "true"
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
