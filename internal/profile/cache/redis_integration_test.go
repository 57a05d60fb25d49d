//go:build integration

package cache_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dojohub/internal/profile"
	"dojohub/internal/profile/cache"
	"dojohub/pkg/domain"
	"dojohub/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.Redis
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = cache.NewRedis(s.redis.Client, time.Minute, slog.Default())
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	viewer := domain.NewUserID()
	subject := domain.NewUserID()
	view := profile.View{
		profile.FieldUserID: subject.String(),
		profile.FieldName:   "Ada",
	}

	s.cache.Set(context.Background(), viewer, subject, view)

	cached, ok := s.cache.Get(context.Background(), viewer, subject)
	s.Require().True(ok)
	s.Equal("Ada", cached[profile.FieldName])
}

func (s *RedisCacheSuite) TestMissForDifferentViewer() {
	viewer := domain.NewUserID()
	subject := domain.NewUserID()
	s.cache.Set(context.Background(), viewer, subject, profile.View{profile.FieldName: "Ada"})

	_, ok := s.cache.Get(context.Background(), domain.NewUserID(), subject)
	s.False(ok)
}

func (s *RedisCacheSuite) TestAnonymousViewerKeyedSeparately() {
	var anon domain.UserID
	subject := domain.NewUserID()
	s.cache.Set(context.Background(), anon, subject, profile.View{profile.FieldAlias: "ada_l"})

	cached, ok := s.cache.Get(context.Background(), anon, subject)
	s.Require().True(ok)
	s.Equal("ada_l", cached[profile.FieldAlias])

	_, ok = s.cache.Get(context.Background(), domain.NewUserID(), subject)
	s.False(ok)
}

func (s *RedisCacheSuite) TestInvalidateClearsAllViewers() {
	subject := domain.NewUserID()
	viewerA := domain.NewUserID()
	viewerB := domain.NewUserID()
	s.cache.Set(context.Background(), viewerA, subject, profile.View{profile.FieldName: "Ada"})
	s.cache.Set(context.Background(), viewerB, subject, profile.View{profile.FieldName: "Ada"})

	s.cache.Invalidate(context.Background(), subject)

	_, ok := s.cache.Get(context.Background(), viewerA, subject)
	s.False(ok)
	_, ok = s.cache.Get(context.Background(), viewerB, subject)
	s.False(ok)
}
