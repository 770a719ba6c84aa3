package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/ftpong/pong-server/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.MatchTTL = time.Hour
	cfg.MaxHistory = 3

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) save(id model.GameID) {
	s.T().Helper()
	match := &model.MatchSummary{
		GameID:      id,
		Mode:        model.ModeClassic,
		First:       model.Player{ID: "p1", Name: "Alice"},
		Second:      model.Player{ID: "p2", Name: "Bob"},
		FirstScore:  3,
		SecondScore: 1,
		Winner:      "p1",
		Reason:      model.EndReasonScore,
		StartedAt:   time.Now().UTC().Truncate(time.Second),
		FinishedAt:  time.Now().UTC().Truncate(time.Second),
	}
	s.Require().NoError(s.storage.SaveMatch(s.ctx, match))
}

func (s *StorageSuite) TestSaveAndListMatch() {
	s.save("g1")

	matches, err := s.storage.ListMatches(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(model.GameID("g1"), matches[0].GameID)
	s.Equal(model.PlayerID("p1"), matches[0].Winner)
	s.Equal(3, matches[0].FirstScore)
	s.Equal(model.EndReasonScore, matches[0].Reason)
}

func (s *StorageSuite) TestListNewestFirstWithLimit() {
	s.save("g1")
	s.save("g2")
	s.save("g3")

	matches, err := s.storage.ListMatches(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(matches, 2)
	s.Equal(model.GameID("g3"), matches[0].GameID)
	s.Equal(model.GameID("g2"), matches[1].GameID)
}

func (s *StorageSuite) TestMaxHistoryTrimsOldest() {
	for _, id := range []model.GameID{"g1", "g2", "g3", "g4"} {
		s.save(id)
	}

	matches, err := s.storage.ListMatches(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(matches, 3)
	s.Equal(model.GameID("g4"), matches[0].GameID)
	s.Equal(model.GameID("g2"), matches[2].GameID)
}

func (s *StorageSuite) TestListEmpty() {
	matches, err := s.storage.ListMatches(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(matches)
}

func (s *StorageSuite) TestExpiredMatchSkipped() {
	s.save("g1")
	s.save("g2")

	s.mini.FastForward(2 * time.Hour)

	matches, err := s.storage.ListMatches(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(matches)
}
