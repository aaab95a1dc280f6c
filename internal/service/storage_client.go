package service

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// StorageClient 文件存储服务客户端
// 采集端提交的照片已上传到文件存储服务，这里只在落库前对 URL 做一次
// 尽力而为的探测：探测失败只告警，从不因此拒绝提交（弱网环境常见）
type StorageClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewStorageClient(baseURL string, timeoutSec int, logger *zap.Logger) *StorageClient {
	if timeoutSec <= 0 {
		timeoutSec = 5
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(time.Duration(timeoutSec) * time.Second).
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond)

	return &StorageClient{
		httpClient: client,
		logger:     logger,
	}
}

// ProbeURLs 探测照片 URL 可达性（HEAD 请求，best-effort）
func (c *StorageClient) ProbeURLs(ctx context.Context, urls []string) {
	for _, url := range urls {
		resp, err := c.httpClient.R().SetContext(ctx).Head(url)
		if err != nil {
			c.logger.Warn("photo url probe failed", zap.String("url", url), zap.Error(err))
			continue
		}
		if resp.IsError() {
			c.logger.Warn("photo url probe returned error status",
				zap.String("url", url),
				zap.Int("status", resp.StatusCode()),
			)
		}
	}
}
