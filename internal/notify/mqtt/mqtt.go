package mqtt

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/JMURv/player-pairing/internal/config"
	"github.com/JMURv/player-pairing/internal/notify"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

const (
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	disconnectQuiesce = 1000
	keepAlive         = 60 * time.Second
)

var ErrConnectionFailed = errors.New("mqtt connection failed")
var ErrPublishFailed = errors.New("mqtt publish failed")

type client interface {
	Publish(topic string, qos byte, retained bool, payload any) pahomqtt.Token
}

// Publisher forwards pairing and presence events to the broker. Full
// snapshots stay on the websocket hub.
type Publisher struct {
	cli    client
	prefix string
	qos    byte
	close  func()
}

func Connect(conf config.MQTTConfig) (*Publisher, error) {
	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if conf.TLS {
		scheme = "ssl"
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, conf.Host, conf.Port))
	opts.SetClientID(conf.ClientID)
	if conf.Username != "" {
		opts.SetUsername(conf.Username)
		opts.SetPassword(conf.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)
	opts.SetConnectionLostHandler(
		func(_ pahomqtt.Client, err error) {
			zap.L().Warn("MQTT connection lost", zap.Error(err))
		},
	)

	cli := pahomqtt.NewClient(opts)
	token := cli.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	zap.L().Info("Connected to MQTT broker", zap.String("host", conf.Host), zap.Int("port", conf.Port))
	p := New(cli, conf.TopicPrefix, conf.QoS)
	p.close = func() { cli.Disconnect(disconnectQuiesce) }
	return p, nil
}

func New(cli client, prefix string, qos byte) *Publisher {
	return &Publisher{cli: cli, prefix: prefix, qos: qos}
}

func (p *Publisher) Topic(t notify.Type) string {
	return p.prefix + "/events/" + string(t)
}

func (p *Publisher) Publish(ctx context.Context, e notify.Event) {
	const op = "notify.Publish.mqtt"
	if e.Type == notify.TypePlayersUpdate {
		return
	}

	span, _ := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	if err := p.publish(p.Topic(e.Type), e); err != nil {
		zap.L().Warn("failed to publish event", zap.String("op", op), zap.String("type", string(e.Type)), zap.Error(err))
	}
}

func (p *Publisher) publish(topic string, e notify.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	token := p.cli.Publish(topic, p.qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err = token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

func (p *Publisher) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
