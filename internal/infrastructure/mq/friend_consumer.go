package mq

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"kama_address_book/internal/config"
	"kama_address_book/internal/registry"
	"kama_address_book/pkg/errorx"
)

// FriendEvent 引擎推送的好友变更消息
type FriendEvent struct {
	Type     string `json:"type"` // added / removed / presence
	RefKey   string `json:"refKey"`
	Presence string `json:"presence,omitempty"`
}

// Poster 把任务投递到模型所在的协程
type Poster interface {
	Post(task func()) error
}

// ChangeHandler 接收好友列表变更
type ChangeHandler interface {
	HandleChange(ch registry.Change)
}

// FriendConsumer 消费好友事件并转交给列表模型
type FriendConsumer struct {
	reader  messageReader
	loop    Poster
	handler ChangeHandler
}

// NewFriendConsumer 按配置创建消费者
func NewFriendConsumer(conf *config.KafkaConfig, loop Poster, handler ChangeHandler) *FriendConsumer {
	return newFriendConsumer(NewReader(conf), loop, handler)
}

func newFriendConsumer(reader messageReader, loop Poster, handler ChangeHandler) *FriendConsumer {
	return &FriendConsumer{reader: reader, loop: loop, handler: handler}
}

// DecodeFriendEvent 解析一条好友事件
func DecodeFriendEvent(data []byte) (registry.Change, error) {
	var ev FriendEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return registry.Change{}, errorx.Wrap(err, errorx.CodeInvalidParam, "好友事件格式错误")
	}
	if ev.RefKey == "" {
		return registry.Change{}, errorx.New(errorx.CodeInvalidParam, "好友事件缺少 refKey")
	}
	ch := registry.Change{RefKey: ev.RefKey, Presence: ev.Presence}
	switch ev.Type {
	case "added":
		ch.Kind = registry.ChangeAdded
	case "removed":
		ch.Kind = registry.ChangeRemoved
	case "presence":
		ch.Kind = registry.ChangePresence
	default:
		return registry.Change{}, errorx.Newf(errorx.CodeInvalidParam, "未知的好友事件类型 %q", ev.Type)
	}
	return ch, nil
}

// Run 持续消费直到 ctx 结束或事件循环关闭
// 无法解析的消息记录日志后提交，避免反复消费
func (c *FriendConsumer) Run(ctx context.Context) error {
	defer closeReader(c.reader)
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			zap.L().Error("fetch friend event error", zap.Error(err))
			return err
		}
		zap.L().Debug("friend event",
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.ByteString("value", msg.Value))

		ch, err := DecodeFriendEvent(msg.Value)
		if err != nil {
			zap.L().Warn("drop friend event", zap.Error(err), zap.ByteString("value", msg.Value))
		} else if err := c.loop.Post(func() { c.handler.HandleChange(ch) }); err != nil {
			zap.L().Warn("event loop stopped, friend consumer exits", zap.Error(err))
			return nil
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
			zap.L().Error("commit friend event error", zap.Error(err))
		}
	}
}
