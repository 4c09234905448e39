package news

import (
	"context"
	"log"
	"time"

	"github.com/mkopaniuk/city-news/internal/metrics"
	"github.com/mkopaniuk/city-news/internal/models"
)

const fetchTimeout = 10 * time.Second

type fetcher interface {
	Fetch(ctx context.Context, query string, pageSize int) ([]models.Article, error)
}

// Service wraps the client with the degrade-to-empty contract: any
// upstream failure is logged and surfaced as "no articles", never as
// an error to the caller.
type Service struct {
	client   fetcher
	pageSize int
	logger   *log.Logger
	m        *metrics.Metrics
}

func NewService(client fetcher, pageSize int, logger *log.Logger, m *metrics.Metrics) *Service {
	return &Service{client: client, pageSize: pageSize, logger: logger, m: m}
}

func (s *Service) Search(ctx context.Context, query string) []models.Article {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	articles, err := s.client.Fetch(ctx, query, s.pageSize)
	if err != nil {
		s.logger.Printf("news fetch failed for %q: %v", query, err)
		s.m.NewsFetchesTotal.WithLabelValues("error").Inc()
		return nil
	}

	if len(articles) == 0 {
		s.m.NewsFetchesTotal.WithLabelValues("empty").Inc()
		return nil
	}

	s.m.NewsFetchesTotal.WithLabelValues("ok").Inc()
	return articles
}
