package federation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"

	"stellar-federation/internal/modules/auth/client"
	"stellar-federation/internal/pkg/config"
	"stellar-federation/internal/pkg/log"
	"stellar-federation/internal/pkg/notify"
	fedredis "stellar-federation/internal/pkg/redis"
	"stellar-federation/internal/repository/entity"
	"stellar-federation/internal/repository/impl"
	"stellar-federation/internal/repository/interfaces"
)

// Backends 按配置创建的外部依赖，未配置的为 nil
type Backends struct {
	Directory interfaces.UserDirectory
	Store     interfaces.AccountStore

	DB     *sql.DB
	Redis  *fedredis.Client
	Kratos *client.KratosClient
	Keto   *client.KetoClient
	NATS   *nats.Conn

	closers []func() error
}

// OpenBackends 连接配置中启用的后端并构建目录与存储
// 任一步失败都会关闭已经打开的连接
func OpenBackends(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *Backends, err error) {
	b := &Backends{}
	defer func() {
		if err != nil {
			_ = b.Close()
		}
	}()

	if cfg.Directory.Backend == config.DirectoryPostgres || cfg.Store.Backend == config.StorePostgres {
		if err = b.openDatabase(ctx, cfg.Database); err != nil {
			return nil, err
		}
		logger.Info("数据库连接成功")
	}

	if cfg.Store.Backend == config.StoreRedis {
		if err = b.openRedis(cfg); err != nil {
			return nil, err
		}
		logger.Info("Redis 连接成功", log.String("addr", cfg.Redis.Addr()))
	}

	if cfg.Kratos.AdminURL != "" || cfg.Kratos.PublicURL != "" {
		b.Kratos = client.NewKratosClient(cfg.Kratos.AdminURL, cfg.Kratos.PublicURL)
	}

	if cfg.Keto.ReadAddr != "" {
		b.Keto, err = client.NewKetoClient(cfg.Keto.ReadAddr, cfg.Keto.WriteAddr, cfg.Keto.Namespace)
		if err != nil {
			return nil, fmt.Errorf("连接 Keto 失败: %w", err)
		}
		b.closers = append(b.closers, b.Keto.Close)
		logger.Info("Keto 客户端已创建", log.String("read_addr", cfg.Keto.ReadAddr))
	}

	if cfg.NATS.URL != "" {
		b.NATS, err = notify.Connect(cfg.NATS.URL, cfg.Server.ServiceName)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() error {
			notify.SetNatsConn(nil)
			return b.NATS.Drain()
		})
		logger.Info("NATS 连接成功", log.String("url", cfg.NATS.URL))
	}

	directory, err := b.buildDirectory(cfg)
	if err != nil {
		return nil, err
	}
	store, err := b.buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	b.Directory = impl.NewInstrumentedDirectory(directory)
	b.Store = impl.NewInstrumentedStore(store)

	logger.Info("联邦后端已就绪",
		log.String("directory", directory.Backend()),
		log.String("store", store.Backend()))
	return b, nil
}

func (b *Backends) openDatabase(ctx context.Context, cfg config.DatabaseConfig) error {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return fmt.Errorf("打开数据库连接失败: %w", err)
	}
	b.closers = append(b.closers, db.Close)

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("数据库 ping 失败: %w", err)
	}

	b.DB = db
	return nil
}

func (b *Backends) openRedis(cfg *config.Config) error {
	rdb, err := fedredis.NewClient(fedredis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Server.ServiceName)
	if err != nil {
		return err
	}
	b.closers = append(b.closers, rdb.Close)
	b.Redis = rdb
	return nil
}

func (b *Backends) buildDirectory(cfg *config.Config) (interfaces.UserDirectory, error) {
	switch cfg.Directory.Backend {
	case config.DirectoryKratos:
		if b.Kratos == nil {
			return nil, errors.New("kratos 目录需要 kratos.admin_url")
		}
		return impl.NewKratosDirectory(b.Kratos), nil
	case config.DirectoryPostgres:
		return impl.NewPostgresDirectory(b.DB), nil
	case config.DirectoryMemory:
		users := make([]*entity.DirectoryUser, 0, len(cfg.SeedUsers))
		for _, u := range cfg.SeedUsers {
			users = append(users, &entity.DirectoryUser{ID: u.ID, Login: u.Login, Email: u.Email})
		}
		return impl.NewMemoryDirectory(users...), nil
	default:
		return nil, fmt.Errorf("未知的目录后端: %s", cfg.Directory.Backend)
	}
}

func (b *Backends) buildStore(ctx context.Context, cfg *config.Config) (interfaces.AccountStore, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		store := impl.NewPostgresAccountStore(b.DB)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("创建 user_stellar_accounts 表失败: %w", err)
		}
		return store, nil
	case config.StoreRedis:
		return impl.NewRedisAccountStore(b.Redis, cfg.Redis.KeyPrefix), nil
	case config.StoreMemory:
		seed := make(map[string]string, len(cfg.SeedUsers))
		for _, u := range cfg.SeedUsers {
			if u.AccountID != "" {
				seed[u.ID] = u.AccountID
			}
		}
		return impl.NewMemoryAccountStore(seed), nil
	default:
		return nil, fmt.Errorf("未知的存储后端: %s", cfg.Store.Backend)
	}
}

// Close 按打开顺序的逆序关闭连接
func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
