package kafka

import (
	"context"
	"fmt"
	"sync"

	"github.com/Shopify/sarama"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// MessageQueue of kafka.
type MessageQueue struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	client   sarama.Client
	producer sarama.SyncProducer
	consumer sarama.Consumer
	handler  map[string][]sarama.PartitionConsumer
	handle   map[string]Handler

	logger log.Logger
}

// NewMessageQueue ...
func NewMessageQueue(
	addrs []string,
	logger log.Logger,
) (*MessageQueue, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Consumer.Return.Errors = true
	client, err := sarama.NewClient(addrs, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	producer, err := sarama.NewSyncProducerFromClient(client)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	consumer, err := sarama.NewConsumerFromClient(client)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return newMessageQueue(client, producer, consumer, logger), nil
}

func newMessageQueue(
	client sarama.Client,
	producer sarama.SyncProducer,
	consumer sarama.Consumer,
	logger log.Logger,
) *MessageQueue {
	mq := &MessageQueue{
		client:   client,
		producer: producer,
		consumer: consumer,
		handler:  make(map[string][]sarama.PartitionConsumer),
		handle:   make(map[string]Handler),
		logger:   log.WithPrefix(logger, "component", "kafka"),
	}
	mq.ctx, mq.cancel = context.WithCancel(context.Background())
	return mq
}

// Consume adds consume topic. New messages of every partition go to h.
func (mq *MessageQueue) Consume(topic string, h Handler) error {
	if _, isExist := mq.handle[topic]; isExist {
		return fmt.Errorf("%s: %w", topic, errTopicIsExist)
	}

	partitions, err := mq.consumer.Partitions(topic)
	if err != nil {
		return fmt.Errorf("partitions of %s: %w", topic, err)
	}
	for _, partition := range partitions {
		pc, err := mq.consumer.ConsumePartition(topic, partition, sarama.OffsetNewest)
		if err != nil {
			return fmt.Errorf("consume %s/%d: %w", topic, partition, err)
		}
		mq.handler[topic] = append(mq.handler[topic], pc)
	}
	mq.handle[topic] = h
	return nil
}

// NewPublish returns publish func.
func (mq *MessageQueue) NewPublish(topic string) Publish {
	return func(message []byte) (err error) {
		msg := &sarama.ProducerMessage{
			Topic: topic,
			Value: sarama.ByteEncoder(message),
		}
		_, _, err = mq.producer.SendMessage(msg)
		return
	}
}

// ListenAndServe message queue.
func (mq *MessageQueue) ListenAndServe() {
	for topic, pcs := range mq.handler {
		for _, pc := range pcs {
			mq.wg.Add(1)
			go mq.runtime(topic, pc, mq.handle[topic])
		}
	}
}

// Shutdown consumers message queue.
// Handlers in flight finish before the producer is closed.
func (mq *MessageQueue) Shutdown() {
	mq.cancel()
	mq.wg.Wait()
	mq.consumer.Close()
	mq.producer.Close()
	if mq.client != nil {
		mq.client.Close()
	}
}

func (mq *MessageQueue) runtime(topic string, pc sarama.PartitionConsumer, h Handler) {
	defer mq.wg.Done()
	defer pc.Close()

	errs := pc.Errors()
	for {
		select {
		case <-mq.ctx.Done():
			return
		case m, ok := <-pc.Messages():
			if !ok {
				return
			}
			mq.wg.Add(1)
			go func(message []byte) {
				defer mq.wg.Done()
				h(mq.ctx, message)
			}(m.Value)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			level.Error(mq.logger).Log("msg", "consume", "topic", topic, "err", err)
		}
	}
}
