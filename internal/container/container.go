package container

import (
	"cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/famcare/chat-service/config"
	"github.com/famcare/chat-service/internal/realtime"
	"github.com/famcare/chat-service/pkg/helpers"
)

// App-level container sharing constructed singletons across packages so the
// router can auto-wire modules.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	jwtManager  *helpers.JWTManager
	hub         *realtime.Hub
)

func SetConfig(c *config.Config)     { cfg = c }
func GetConfig() *config.Config      { return cfg }
func SetLogger(l *logrus.Logger)     { logger = l }
func GetLogger() *logrus.Logger      { return logger }
func SetPGPool(p *pgxpool.Pool)      { pgPool = p }
func GetPGPool() *pgxpool.Pool       { return pgPool }
func SetRedis(r *redis.Client)       { redisClient = r }
func GetRedis() *redis.Client        { return redisClient }
func SetGCS(s *storage.Client)       { gcsClient = s }
func GetGCS() *storage.Client        { return gcsClient }
func SetJWT(m *helpers.JWTManager)   { jwtManager = m }
func GetJWT() *helpers.JWTManager    { return jwtManager }
func SetHub(h *realtime.Hub)         { hub = h }
func GetHub() *realtime.Hub          { return hub }
