package logger

import (
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// RoundTripper logs every outbound news API request to a zap logger.
type RoundTripper struct {
	Logger *zap.Logger
	Proxy  http.RoundTripper
}

func NewRoundTripper(logger *zap.Logger) *RoundTripper {
	return &RoundTripper{
		Logger: logger,
		Proxy:  http.DefaultTransport,
	}
}

func (l *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := l.Proxy.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		l.Logger.Error("HTTP request failed",
			zap.String("method", req.Method),
			zap.String("url", redactedURL(req.URL)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	l.Logger.Info("HTTP request completed",
		zap.String("method", req.Method),
		zap.String("url", redactedURL(req.URL)),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// redactedURL masks the API key query value; url.URL.Redacted only
// covers userinfo passwords.
func redactedURL(u *url.URL) string {
	q := u.Query()
	if !q.Has("apiKey") {
		return u.Redacted()
	}
	q.Set("apiKey", "xxxxx")
	masked := *u
	masked.RawQuery = q.Encode()
	return masked.Redacted()
}
