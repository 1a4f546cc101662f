package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"adaayam_back_end/internal/config"
)

// --- Configuration ScyllaDB ---
type ScyllaKeyspaceConfig struct {
	Hosts       []string
	Keyspace    string
	Username    string
	Password    string
	SSLEnabled  bool
	CACertPath  string
	Timeout     time.Duration
	NumConns    int
	Consistency gocql.Consistency
}

// ScyllaManager gère une session gocql par keyspace (users, products, orders).
type ScyllaManager struct {
	sessions map[string]*gocql.Session // keyspace → session
	configs  map[string]ScyllaKeyspaceConfig
	mu       sync.Mutex
}

// Connections regroupe tous les handles de bases de données.
// Construit dans main puis injecté dans les repositories et services,
// plus aucune variable globale partagée.
type Connections struct {
	Scylla  *ScyllaManager
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client

	usersKeyspace    string
	productsKeyspace string
	ordersKeyspace   string
}

// Connect initialise toutes les bases de données.
func Connect(cfg config.Config) (*Connections, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conns := &Connections{
		usersKeyspace:    cfg.UsersKeyspace.Keyspace,
		productsKeyspace: cfg.ProductsKeyspace.Keyspace,
		ordersKeyspace:   cfg.OrdersKeyspace.Keyspace,
	}

	// 1. ScyllaDB (multi-keyspaces)
	scylla, err := newScyllaManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("échec initialisation ScyllaDB: %w", err)
	}
	conns.Scylla = scylla

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("échec connexion Redis: %w", err)
	}
	conns.Redis = rdb
	log.Println("✅ Connecté à Redis")

	// 3. Elasticsearch
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("échec création client Elasticsearch: %w", err)
	}
	conns.Elastic = es
	log.Println("✅ Connecté à Elasticsearch")

	// 4. MinIO (optionnel — les images restent servables par URL externe)
	if cfg.MinIOEndpoint != "" {
		mc, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		})
		if err != nil {
			log.Println("⚠️ MinIO non configuré :", err)
		} else {
			conns.MinIO = mc
			log.Println("✅ Connecté à MinIO :", cfg.MinIOEndpoint)
		}
	}

	log.Println("✅ Toutes les bases de données sont connectées")
	return conns, nil
}

// UsersSession retourne la session du keyspace utilisateurs.
func (c *Connections) UsersSession() (*gocql.Session, error) {
	return c.Scylla.GetSession(c.usersKeyspace)
}

// ProductsSession retourne la session du keyspace produits.
func (c *Connections) ProductsSession() (*gocql.Session, error) {
	return c.Scylla.GetSession(c.productsKeyspace)
}

// OrdersSession retourne la session du keyspace commandes.
func (c *Connections) OrdersSession() (*gocql.Session, error) {
	return c.Scylla.GetSession(c.ordersKeyspace)
}

// Close ferme proprement toutes les connexions.
func (c *Connections) Close() {
	c.Scylla.Close()
	if c.Redis != nil {
		c.Redis.Close()
	}
}

// =============================================
// SCYLLA DB (Multi-Keyspaces avec SSL & Rôles)
// =============================================

func newScyllaManager(cfg config.Config) (*ScyllaManager, error) {
	sm := &ScyllaManager{
		sessions: make(map[string]*gocql.Session),
		configs:  loadScyllaConfigs(cfg),
	}

	// Crée les sessions pour chaque keyspace configuré.
	// Note: les tables sont créées via scripts/scylladb_init.cql,
	// pas d'initialisation automatique (problèmes de permissions).
	for keyspace := range sm.configs {
		if _, err := sm.GetSession(keyspace); err != nil {
			return nil, fmt.Errorf("échec initialisation keyspace %s: %v", keyspace, err)
		}
	}

	return sm, nil
}

func loadScyllaConfigs(cfg config.Config) map[string]ScyllaKeyspaceConfig {
	configs := make(map[string]ScyllaKeyspaceConfig)

	for _, ks := range []config.KeyspaceConfig{cfg.UsersKeyspace, cfg.ProductsKeyspace, cfg.OrdersKeyspace} {
		if ks.Keyspace == "" {
			continue
		}
		configs[ks.Keyspace] = ScyllaKeyspaceConfig{
			Hosts:       cfg.ScyllaHosts,
			Keyspace:    ks.Keyspace,
			Username:    ks.Role,
			Password:    ks.Password,
			SSLEnabled:  cfg.ScyllaSSLEnabled,
			CACertPath:  cfg.ScyllaCACertPath,
			Timeout:     cfg.ScyllaTimeout,
			NumConns:    cfg.ScyllaNumConns,
			Consistency: gocql.Quorum,
		}
	}

	return configs
}

// createScyllaCluster crée une configuration de cluster pour un keyspace
func createScyllaCluster(config ScyllaKeyspaceConfig) (*gocql.ClusterConfig, error) {
	cluster := gocql.NewCluster(config.Hosts...)
	cluster.Keyspace = config.Keyspace
	cluster.Consistency = config.Consistency
	cluster.Timeout = config.Timeout
	cluster.NumConns = config.NumConns

	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	cluster.ReconnectInterval = 1 * time.Second
	cluster.Authenticator = gocql.PasswordAuthenticator{
		Username: config.Username,
		Password: config.Password,
	}

	if config.SSLEnabled && config.CACertPath != "" {
		caCert, err := os.ReadFile(config.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("impossible de lire le certificat CA: %v", err)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("impossible de parser le certificat CA")
		}

		cluster.SslOpts = &gocql.SslOptions{
			Config: &tls.Config{RootCAs: caCertPool},
		}
	}

	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	return cluster, nil
}

// GetSession retourne une session pour un keyspace donné
func (sm *ScyllaManager) GetSession(keyspace string) (*gocql.Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	config, exists := sm.configs[keyspace]
	if !exists {
		return nil, fmt.Errorf("keyspace '%s' non configuré", keyspace)
	}

	// Si la session existe déjà et répond, la réutiliser
	if session, exists := sm.sessions[keyspace]; exists {
		if err := session.Query("SELECT now() FROM system.local").Exec(); err == nil {
			return session, nil
		}
		session.Close()
	}

	cluster, err := createScyllaCluster(config)
	if err != nil {
		return nil, fmt.Errorf("erreur configuration cluster pour %s: %v", keyspace, err)
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session pour %s: %v", keyspace, err)
	}

	sm.sessions[keyspace] = session
	log.Printf("✅ Nouvelle session ScyllaDB pour keyspace '%s' (utilisateur: %s)",
		keyspace, config.Username)

	return session, nil
}

// Close ferme toutes les sessions ScyllaDB
func (sm *ScyllaManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for keyspace, session := range sm.sessions {
		session.Close()
		log.Printf("🔌 Session ScyllaDB fermée pour keyspace '%s'", keyspace)
	}
}
