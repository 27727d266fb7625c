// Package publish mirrors entity state onto an MQTT broker and accepts
// commands from it.
package publish

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"aircon-bridge/internal/logger"
)

const (
	qos            = 0
	connectTimeout = 10 * time.Second
	disconnectWait = 250
)

// Client is a broker connection whose topics are all scoped under a root.
type Client struct {
	topicRoot string
	opts      *paho.ClientOptions
	client    paho.Client
}

// NewClient prepares a client. Nothing is sent until Connect.
func NewClient(brokerURL string, clientID string, topicRoot string) *Client {
	opts := paho.NewClientOptions().AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Warn("mqtt connection lost: %v", err)
	})

	return &Client{
		topicRoot: strings.TrimSuffix(topicRoot, "/"),
		opts:      opts,
	}
}

func (c *Client) Connect() error {
	c.client = paho.NewClient(c.opts)
	token := c.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect error: %w", err)
	}
	logger.Info("connected to mqtt broker, topic root %q", c.topicRoot)
	return nil
}

func (c *Client) Disconnect() {
	if c.client == nil {
		return
	}
	c.client.Disconnect(disconnectWait)
}

func (c *Client) scope(topic string) (string, error) {
	if len(topic) == 0 {
		return "", fmt.Errorf("topic is empty")
	}
	if topic[0] == '/' {
		return "", fmt.Errorf("expected relative topic (cannot begin with slash)")
	}
	return c.topicRoot + "/" + topic, nil
}

// Publish sends payload as JSON to topic, relative to the root.
func (c *Client) Publish(topic string, payload any, retained bool) error {
	if c.client == nil {
		return fmt.Errorf("client not connected")
	}
	scopedTopic, err := c.scope(topic)
	if err != nil {
		return err
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("unable to encode payload for %s: %w", scopedTopic, err)
	}

	token := c.client.Publish(scopedTopic, qos, retained, payloadBytes)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			logger.Warn("error publishing to %s: %v", scopedTopic, err)
		}
	}()
	return nil
}

// Subscribe registers handler for filter, relative to the root. The handler
// receives topics with the root stripped.
func (c *Client) Subscribe(filter string, handler func(topic string, payload []byte)) error {
	if c.client == nil {
		return fmt.Errorf("client not connected")
	}
	scopedFilter, err := c.scope(filter)
	if err != nil {
		return err
	}

	prefix := c.topicRoot + "/"
	token := c.client.Subscribe(scopedFilter, qos, func(_ paho.Client, m paho.Message) {
		handler(strings.TrimPrefix(m.Topic(), prefix), m.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", scopedFilter, err)
	}
	return nil
}
