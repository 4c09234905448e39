package news_test

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkopaniuk/city-news/internal/services/news"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func TestClient_Fetch_Success(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body: io.NopCloser(strings.NewReader(
				`{
					"status": "ok",
					"totalResults": 2,
					"articles": [
						{"title": "Новини Києва", "url": "https://example.com/1"},
						{"title": "Ще новини", "url": "https://example.com/2", "description": "опис"}
					]
				}`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := news.NewClient("1234567890", "https://newsapi.test/v2/everything", "uk", m, log.Default())

	articles, err := client.Fetch(context.Background(), "Київ", 5)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Новини Києва", articles[0].Title)
	assert.Equal(t, "https://example.com/1", articles[0].URL)
	assert.Equal(t, "опис", articles[1].Description)
}

func TestClient_Fetch_SendsFixedParams(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		q := req.URL.Query()
		return q.Get("q") == "Львів" &&
			q.Get("language") == "uk" &&
			q.Get("sortBy") == "publishedAt" &&
			q.Get("apiKey") == "secret" &&
			q.Get("pageSize") == "20"
	})).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"articles": []}`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := news.NewClient("secret", "https://newsapi.test/v2/everything", "uk", m, log.Default())

	articles, err := client.Fetch(context.Background(), "Львів", 20)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestClient_Fetch_NonOKStatus(t *testing.T) {
	testCases := []struct {
		name   string
		status int
	}{
		{name: "not found", status: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "unauthorized", status: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockHTTPClient{}
			m.On("Do", mock.Anything).Return(
				&http.Response{
					StatusCode: tc.status,
					Body:       io.NopCloser(strings.NewReader(`{"status":"error"}`)),
				}, nil).Once()

			client := news.NewClient("key", "https://newsapi.test/v2/everything", "uk", m, log.Default())

			articles, err := client.Fetch(context.Background(), "Київ", 5)
			assert.Error(t, err)
			assert.Nil(t, articles)
			m.AssertExpectations(t)
		})
	}
}

func TestClient_Fetch_MalformedBody(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"articles": [`)),
		}, nil).Once()

	client := news.NewClient("key", "https://newsapi.test/v2/everything", "uk", m, log.Default())

	_, err := client.Fetch(context.Background(), "Київ", 5)
	assert.Error(t, err)
	m.AssertExpectations(t)
}
