package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/berfenger/solaredge2eink/internal/config"
	"github.com/berfenger/solaredge2eink/internal/core/domain"
	"github.com/berfenger/solaredge2eink/internal/core/events"
	"github.com/berfenger/solaredge2eink/internal/logging"

	"github.com/asynkron/protoactor-go/eventstream"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const (
	CONNECT_TIMEOUT    = 10 * time.Second
	PUBLISH_TIMEOUT    = 5 * time.Second
	DISCONNECT_TIMEOUT = 500 * time.Millisecond
)

type rawMessage struct {
	topic   string
	message string
	retain  bool
}

// Publisher mirrors poll results from the event stream to MQTT and announces
// them through Home Assistant discovery.
type Publisher struct {
	client    *MQTTClient
	sensors   []domain.GenericSensor
	discovery bool
	es        *eventstream.EventStream
	sub       *eventstream.Subscription
	logger    *zap.Logger
}

func NewPublisher(cfg *config.Config, sensors []domain.GenericSensor, logger *zap.Logger) *Publisher {
	p := &Publisher{
		sensors:   sensors,
		discovery: cfg.MQTT.HADiscoveryEnable,
		logger:    logging.Component(logger, "mqtt"),
	}
	p.client = CreateMQTTClient(cfg, OptsFromConfig(cfg), p.onConnect, p.onConnectionLost)
	return p
}

// Start connects to the broker and subscribes to es. The broker connection
// is kept alive by the client's reconnect logic afterwards.
func (p *Publisher) Start(es *eventstream.EventStream) error {
	if err := p.client.Connect(CONNECT_TIMEOUT); err != nil {
		return fmt.Errorf("connect to MQTT broker: %w", err)
	}
	p.es = es
	p.sub = es.Subscribe(p.handle)
	return nil
}

func (p *Publisher) Stop() {
	if p.sub != nil {
		p.es.Unsubscribe(p.sub)
		p.sub = nil
	}
	p.logger.Debug("mqtt: disconnect")
	if msg := event2MQTTMessage(p.client, events.BridgeStateUpdateEvents(false)); msg != nil {
		p.client.Publish(msg.topic, msg.message, 0, msg.retain, func(error) {}, DISCONNECT_TIMEOUT)
	}
	p.client.Disconnect(DISCONNECT_TIMEOUT)
}

func (p *Publisher) onConnect(_ pahomqtt.Client) {
	p.logger.Info("mqtt connected")
	p.publishEvent(events.BridgeStateUpdateEvents(true))
	if p.discovery {
		if err := p.publishDiscovery(); err != nil {
			p.logger.Error("mqtt: could not publish discovery", zap.Error(err))
		}
	}
}

func (p *Publisher) onConnectionLost(_ pahomqtt.Client, err error) {
	p.logger.Warn("mqtt connection lost", zap.Error(err))
}

func (p *Publisher) handle(evt any) {
	pc, ok := evt.(domain.PollCompleted)
	if !ok || !p.client.IsConnected() {
		return
	}
	for _, e := range events.PollCompletedToUpdateEvents(pc) {
		p.publishEvent(e)
	}
}

func (p *Publisher) publishEvent(e any) {
	if msg := event2MQTTMessage(p.client, e); msg != nil {
		p.publish(msg.topic, msg.message, msg.retain)
	}
}

func (p *Publisher) publish(topic, payload string, retain bool) {
	p.logger.Sugar().Debugf("mqtt@publish: %s => %s", topic, payload)
	p.client.Publish(topic, payload, 1, retain, func(err error) {
		if err != nil {
			p.logger.Error("mqtt: could not publish a message", zap.String("topic", topic), zap.Error(err))
		}
	}, PUBLISH_TIMEOUT)
}

func (p *Publisher) publishDiscovery() error {
	for i := range p.sensors {
		payload, err := json.Marshal(GenericSensorToHADiscoveryMessage(p.client, p.sensors[i]))
		if err != nil {
			return err
		}
		topic := HADiscoverySensorTopic(p.client.DiscoveryPrefix(), p.sensors[i])
		p.client.Publish(topic, payload, 0, true, func(error) {}, time.Second)
	}
	return nil
}

func event2MQTTMessage(client *MQTTClient, event any) *rawMessage {
	switch msg := event.(type) {
	case domain.FloatSensorUpdateEvent:
		return &rawMessage{
			topic:   client.SensorStateTopic(msg.Id),
			message: fmt.Sprintf(fmt.Sprintf("%%.%df", msg.Decimals), msg.Value),
		}
	case domain.BinarySensorUpdateEvent:
		return &rawMessage{
			topic:   client.BinarySensorStateTopic(msg.Id),
			message: bool2MQTTPayload(msg.Value),
		}
	case domain.TextSensorUpdateEvent:
		return &rawMessage{
			topic:   client.SensorStateTopic(msg.Id),
			message: msg.Value,
		}
	case domain.BridgeStateUpdateEvent:
		stringMessage := MQTT_PAYLOAD_OFFLINE
		if msg.Value {
			stringMessage = MQTT_PAYLOAD_ONLINE
		}
		return &rawMessage{
			topic:   client.BridgeStateTopic(),
			message: stringMessage,
			retain:  true,
		}
	default:
		return nil
	}
}

func bool2MQTTPayload(value bool) string {
	if value {
		return MQTT_PAYLOAD_ON
	}
	return MQTT_PAYLOAD_OFF
}
