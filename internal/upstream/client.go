// Package upstream talks to the remote reporting API the dashboard reads from.
package upstream

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"go-dashboard/internal/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReportClient posts report queries to the reporting API.
type ReportClient interface {
	// PostForm sends form as an urlencoded POST to path and returns the raw
	// 2xx body. Every failure is an *Error.
	PostForm(ctx context.Context, path, token string, form url.Values) ([]byte, error)
}

type ReportClientImpl struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

func NewReportClient(cfg *config.Config, logger *zap.Logger) ReportClient {
	return &ReportClientImpl{
		BaseURL: strings.TrimRight(cfg.UpstreamURL, "/"),
		Timeout: cfg.UpstreamTimeout,
		Logger:  logger,
	}
}

func (c *ReportClientImpl) PostForm(ctx context.Context, path, token string, form url.Values) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, Normalize(err)
	}

	endpoint := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	agent := fiber.Post(endpoint)
	if token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	for key, values := range form {
		for _, v := range values {
			args.Add(key, v)
		}
	}
	agent.Form(args)

	if timeout := c.timeoutFor(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}

	start := time.Now()
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		c.Logger.Debug("Reporting API unreachable",
			zap.String("endpoint", endpoint),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, connectivityError(err)
	}

	if code < 200 || code >= 300 {
		return nil, statusError(code, body)
	}

	c.Logger.Debug("Reporting API call",
		zap.String("endpoint", endpoint),
		zap.Int("status", code),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return body, nil
}

// timeoutFor picks the tighter of the configured timeout and ctx's deadline.
func (c *ReportClientImpl) timeoutFor(ctx context.Context) time.Duration {
	timeout := c.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}
