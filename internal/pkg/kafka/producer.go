package kafka

import (
	"Kindred/internal/api/config"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// 关系生命周期事件类型
const (
	EventMatchCreated   = "match.created"
	EventMatchUnmatched = "match.unmatched"
	EventMessageSent    = "message.sent"
)

// RelationshipEvent 投递到关系事件总线的载荷。
// 在数据库事务提交之后才发布，尽力投递，失败不回滚已提交的写入。
type RelationshipEvent struct {
	Type    string    `json:"type"`
	Mode    string    `json:"mode"`
	MatchID uint64    `json:"matchId"`
	UserIDs []uint64  `json:"userIds"`
	At      time.Time `json:"at"`
}

// Producer 关系事件生产者
type Producer struct {
	async sarama.AsyncProducer
	topic string
}

func NewProducer(cfg *config.Config) (*Producer, error) {
	async, err := sarama.NewAsyncProducer(cfg.Kafka.Brokers, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, errors.Wrap(err, "create relationship event producer")
	}

	p := &Producer{async: async, topic: cfg.Kafka.Producer.Topic}

	// 异步生产的失败只记日志
	go func() {
		for e := range async.Errors() {
			log.Error("Relationship event delivery failed", "topic", e.Msg.Topic, "err", e.Err)
		}
	}()

	return p, nil
}

// PublishRelationshipEvent 发布关系事件，序列化失败或通道拥塞时丢弃并记日志
func (p *Producer) PublishRelationshipEvent(event *RelationshipEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("Failed to marshal relationship event", "type", event.Type, "err", err)
		return
	}

	p.async.Input() <- &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Mode),
		Value: sarama.ByteEncoder(payload),
	}
}

func (p *Producer) Close() error {
	return p.async.Close()
}
