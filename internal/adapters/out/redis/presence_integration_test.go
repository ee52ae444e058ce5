package redis_test

import (
	"context"
	"testing"
	"time"

	redis_adapter "interpreting/internal/adapters/out/redis"
	"interpreting/internal/core/domain/model/kernel"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// PresenceCacheIntegrationTestSuite provides integration tests for the
// presence cache using a Redis container.
type PresenceCacheIntegrationTestSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *goredis.Client
	cache     *redis_adapter.PresenceCache
}

func (suite *PresenceCacheIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx)
	suite.Require().NoError(err)

	options, err := goredis.ParseURL(connStr)
	suite.Require().NoError(err)
	suite.client = goredis.NewClient(options)

	cache, err := redis_adapter.NewPresenceCache(suite.client, 30*time.Second)
	suite.Require().NoError(err)
	suite.cache = cache
}

func (suite *PresenceCacheIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushAll(context.Background()).Err())
}

func (suite *PresenceCacheIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *PresenceCacheIntegrationTestSuite) TestSetOnline_MakesActorVisible() {
	ctx := context.Background()
	actor := kernel.NewUUID()

	online, err := suite.cache.IsOnline(ctx, actor)
	suite.Require().NoError(err)
	suite.False(online)

	suite.Require().NoError(suite.cache.SetOnline(ctx, actor, "conn-1"))

	online, err = suite.cache.IsOnline(ctx, actor)
	suite.Require().NoError(err)
	suite.True(online)
}

func (suite *PresenceCacheIntegrationTestSuite) TestSetOffline_OwnConnection_RemovesEntry() {
	ctx := context.Background()
	actor := kernel.NewUUID()

	suite.Require().NoError(suite.cache.SetOnline(ctx, actor, "conn-1"))
	suite.Require().NoError(suite.cache.SetOffline(ctx, actor, "conn-1"))

	online, err := suite.cache.IsOnline(ctx, actor)
	suite.Require().NoError(err)
	suite.False(online)
}

func (suite *PresenceCacheIntegrationTestSuite) TestSetOffline_SupersededConnection_KeepsEntry() {
	ctx := context.Background()
	actor := kernel.NewUUID()

	// A reconnect replaced the entry before the old connection's
	// disconnect handler fired.
	suite.Require().NoError(suite.cache.SetOnline(ctx, actor, "conn-1"))
	suite.Require().NoError(suite.cache.SetOnline(ctx, actor, "conn-2"))
	suite.Require().NoError(suite.cache.SetOffline(ctx, actor, "conn-1"))

	online, err := suite.cache.IsOnline(ctx, actor)
	suite.Require().NoError(err)
	suite.True(online)
}

func (suite *PresenceCacheIntegrationTestSuite) TestSetOffline_AbsentEntry_IsANoOp() {
	ctx := context.Background()

	suite.Require().NoError(suite.cache.SetOffline(ctx, kernel.NewUUID(), "conn-1"))
}

func (suite *PresenceCacheIntegrationTestSuite) TestRefresh_ExtendsTTL() {
	ctx := context.Background()
	actor := kernel.NewUUID()

	suite.Require().NoError(suite.cache.SetOnline(ctx, actor, "conn-1"))
	suite.Require().NoError(suite.cache.Refresh(ctx, actor))

	ttl, err := suite.client.TTL(ctx, "presence:"+actor.String()).Result()
	suite.Require().NoError(err)
	suite.Greater(ttl, 25*time.Second)
}

func (suite *PresenceCacheIntegrationTestSuite) TestValidation() {
	ctx := context.Background()

	err := suite.cache.SetOnline(ctx, kernel.UUID{}, "conn-1")
	suite.Require().Error(err)

	err = suite.cache.SetOnline(ctx, kernel.NewUUID(), "")
	suite.Require().Error(err)

	_, err = redis_adapter.NewPresenceCache(nil, time.Second)
	suite.Require().Error(err)

	_, err = redis_adapter.NewPresenceCache(suite.client, 0)
	suite.Require().Error(err)
}

func TestPresenceCacheIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PresenceCacheIntegrationTestSuite))
}
