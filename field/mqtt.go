package field

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// PoseHandler is called for each pose telemetry message received in
// live mode. err is non-nil when the payload could not be decoded.
type PoseHandler func(msg PoseMessage, err error)

// MQTTClient manages the MQTT connection and pose topic subscription
// for live mode.
type MQTTClient struct {
	client      mqtt.Client
	config      *MQTTConfig
	poseHandler PoseHandler
	isConnected bool
	mu          sync.RWMutex
}

// InitMQTT connects to the configured broker and subscribes to the pose
// topic. Environment variables (MQTT_BROKER, MQTT_CLIENT_ID,
// MQTT_USERNAME, MQTT_PASSWORD) override config values. Returns nil with
// no error when no broker is configured anywhere.
func InitMQTT(config *MQTTConfig, handler PoseHandler) (*MQTTClient, error) {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" && config != nil {
		broker = config.Broker
	}
	if broker == "" {
		log.Println("MQTT disabled: no broker configured")
		return nil, nil
	}
	if config == nil || config.Topic == "" {
		return nil, fmt.Errorf("MQTT enabled but no pose topic configured")
	}

	c := &MQTTClient{
		config:      config,
		poseHandler: handler,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)

	clientID := os.Getenv("MQTT_CLIENT_ID")
	if clientID == "" && config.ClientID != "" {
		clientID = config.ClientID
	}
	if clientID == "" {
		clientID = "tagtrace"
	}
	opts.SetClientID(clientID)

	username := os.Getenv("MQTT_USERNAME")
	if username == "" && config.Username != "" {
		username = config.Username
	}
	if username != "" {
		opts.SetUsername(username)
		password := os.Getenv("MQTT_PASSWORD")
		if password == "" && config.Password != "" {
			password = config.Password
		}
		opts.SetPassword(password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOrderMatters(true) // elapsed-time accumulation needs in-order delivery

	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)

	c.client = mqtt.NewClient(opts)

	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return c, nil
}

// onConnect subscribes to the pose topic. Subscriptions are re-issued on
// every (re)connect.
func (c *MQTTClient) onConnect(client mqtt.Client) {
	c.mu.Lock()
	c.isConnected = true
	c.mu.Unlock()

	log.Printf("MQTT connected, subscribing to %s", c.config.Topic)

	token := client.Subscribe(c.config.Topic, 1, c.handleMessage)
	if token.Wait() && token.Error() != nil {
		log.Printf("Error subscribing to %s: %v", c.config.Topic, token.Error())
	}
}

func (c *MQTTClient) onConnectionLost(client mqtt.Client, err error) {
	c.mu.Lock()
	c.isConnected = false
	c.mu.Unlock()

	log.Printf("MQTT connection lost: %v", err)
}

// handleMessage decodes a pose payload and forwards it to the handler.
func (c *MQTTClient) handleMessage(client mqtt.Client, msg mqtt.Message) {
	var pose PoseMessage
	if err := json.Unmarshal(msg.Payload(), &pose); err != nil {
		if c.poseHandler != nil {
			c.poseHandler(PoseMessage{}, fmt.Errorf("decoding pose payload on %s: %w", msg.Topic(), err))
		}
		return
	}
	if c.poseHandler != nil {
		c.poseHandler(pose, nil)
	}
}

// IsConnected reports the current connection state.
func (c *MQTTClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.client == nil {
		return false
	}
	return c.isConnected && c.client.IsConnected()
}

// GetClient returns the underlying paho client (used to build a Publisher).
func (c *MQTTClient) GetClient() mqtt.Client {
	return c.client
}

// Disconnect closes the connection, allowing in-flight work to finish.
func (c *MQTTClient) Disconnect() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
	}
	c.mu.Lock()
	c.isConnected = false
	c.mu.Unlock()
}
