// Package mq 订阅通信引擎推送的好友列表变更
// kafka_client.go 负责 Kafka Reader 的创建与关闭，不包含业务逻辑
package mq

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"kama_address_book/internal/config"
)

// messageReader Kafka 读取接口，便于测试替换
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewReader 按配置创建好友事件主题的 Reader
func NewReader(conf *config.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{conf.HostPort},
		Topic:          conf.FriendTopic,
		GroupID:        conf.GroupID,
		CommitInterval: conf.Timeout * time.Second,
		StartOffset:    kafka.LastOffset,
		MaxWait:        conf.Timeout * time.Second,
	})
}

func closeReader(r messageReader) {
	if err := r.Close(); err != nil {
		zap.L().Error("close kafka reader error", zap.Error(err))
	}
}
