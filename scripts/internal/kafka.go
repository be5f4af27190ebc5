package internal

import (
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/samber/lo"
	"github.com/tallybank/tallybank/internal/config"
)

// CheckKafkaConnection lists the topics of the configured brokers
func CheckKafkaConnection() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V2_8_0_0
	saramaConfig.Net.DialTimeout = 10 * time.Second
	saramaConfig.Net.ReadTimeout = 10 * time.Second
	saramaConfig.Net.WriteTimeout = 10 * time.Second

	client, err := sarama.NewClient(cfg.PubSub.Brokers, saramaConfig)
	if err != nil {
		return fmt.Errorf("error creating client: %v", err)
	}
	defer client.Close()

	topics, err := client.Topics()
	if err != nil {
		return fmt.Errorf("error listing topics: %v", err)
	}

	fmt.Printf("Successfully connected! Available topics: %v\n", topics)
	if cfg.PubSub.Topic != "" {
		fmt.Printf("Event topic %s present: %v\n", cfg.PubSub.Topic, lo.Contains(topics, cfg.PubSub.Topic))
	}
	return nil
}
