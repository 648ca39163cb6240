// Package container builds the application graph from configuration.
// Optional infrastructure (Redis, Elasticsearch, GCS, RabbitMQ, GitHub) stays
// nil when unconfigured and the features depending on it switch off.
package container

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/devconnector-api/config"
	"github.com/oksasatya/devconnector-api/internal/application"
	repo "github.com/oksasatya/devconnector-api/internal/domain/repository"
	"github.com/oksasatya/devconnector-api/internal/infrastructure/github"
	"github.com/oksasatya/devconnector-api/internal/infrastructure/memory"
	"github.com/oksasatya/devconnector-api/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/devconnector-api/internal/infrastructure/postgres"
	"github.com/oksasatya/devconnector-api/internal/infrastructure/search"
	"github.com/oksasatya/devconnector-api/pkg/helpers"
)

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool *pgxpool.Pool
	Mongo  *mongo.Client
	Redis  *redis.Client
	ES     *elasticsearch.Client
	GCS    *storage.Client
	Rabbit *helpers.RabbitPublisher

	Users    repo.UserRepository
	Profiles repo.ProfileRepository
	Posts    repo.PostRepository
	Search   repo.ProfileSearch
	Repos    repo.RepoLister

	JWT   *helpers.JWTManager
	Creds *application.CredentialService

	UserService    *application.UserService
	ProfileService *application.ProfileService
	PostService    *application.PostService

	closers []func()
}

// New connects every configured backend and wires the services.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	if err := c.initStores(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initOptional(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.wire()
	return c, nil
}

// NewInMemory wires the services over in-process stores only.
func NewInMemory(cfg *config.Config, logger *logrus.Logger) *Container {
	c := &Container{Config: cfg, Logger: logger}
	c.useMemory()
	c.wire()
	return c
}

func (c *Container) useMemory() {
	c.Users = memory.NewUserRepository()
	c.Profiles = memory.NewProfileRepository()
	c.Posts = memory.NewPostRepository()
	c.Search = memory.NewProfileSearch()
}

func (c *Container) initStores(ctx context.Context) error {
	cfg := c.Config
	if cfg.UsesMemoryStore() {
		c.Logger.Warn("using in-memory stores; data is lost on restart")
		c.useMemory()
		return nil
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptionsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	c.PGPool = pool
	c.closers = append(c.closers, pool.Close)
	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, c.Logger); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	mc, err := mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoMaxPool, cfg.MongoTimeout)
	if err != nil {
		return err
	}
	c.Mongo = mc
	c.closers = append(c.closers, func() { _ = mc.Disconnect(context.Background()) })
	db := mc.Database(cfg.MongoDatabase)
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	c.Users = pginfra.NewUserRepository(pool)
	c.Profiles = mongodb.NewProfileRepository(db)
	c.Posts = mongodb.NewPostRepository(db)
	return nil
}

func (c *Container) initOptional(ctx context.Context) error {
	cfg := c.Config

	if rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			// the rate limiter fails open, so a cold Redis is not fatal
			c.Logger.WithError(err).Warn("redis not reachable")
		}
		c.Redis = rdb
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return fmt.Errorf("elasticsearch: %w", err)
	}
	if es != nil {
		c.ES = es
		if err := helpers.PingES(ctx, es); err != nil {
			c.Logger.WithError(err).Warn("elasticsearch not reachable")
		}
		idx := search.NewProfileIndex(es, cfg.ESProfilesIndex)
		if err := idx.EnsureIndex(ctx); err != nil {
			c.Logger.WithError(err).Warn("profile index not ready")
		}
		c.Search = idx
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return fmt.Errorf("gcs: %w", err)
		}
		c.GCS = gcs
		c.closers = append(c.closers, func() { _ = gcs.Close() })
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		c.Rabbit = pub
		c.closers = append(c.closers, pub.Close)
	}
	return nil
}

func (c *Container) wire() {
	cfg := c.Config
	if cfg.GitHubAPIURL != "" {
		c.Repos = github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken)
	}

	c.JWT = helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	c.Creds = application.NewCredentialService(c.JWT)

	us := application.NewUserService(c.Users, c.Profiles, c.Posts, c.Creds, c.Logger)
	us.Config = cfg
	us.Index = c.Search
	if c.Rabbit != nil {
		us.Jobs = c.Rabbit
	}
	if c.GCS != nil {
		us.GCS, us.GCSBucket = c.GCS, cfg.GCSBucket
	}
	c.UserService = us

	ps := application.NewProfileService(c.Profiles, c.Users, c.Logger)
	ps.Index, ps.Repos = c.Search, c.Repos
	c.ProfileService = ps

	c.PostService = application.NewPostService(c.Posts, c.Users, c.Logger)
}

// Close releases connections in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
