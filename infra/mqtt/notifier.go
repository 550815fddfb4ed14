package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/haocluo92/well-scheduler/core/monitoring"
	"github.com/haocluo92/well-scheduler/core/notify"
	"github.com/haocluo92/well-scheduler/core/schedule/runlog"
	"github.com/haocluo92/well-scheduler/core/simops"
	"github.com/haocluo92/well-scheduler/infra/logger"
)

const (
	runsTopic   = "wellsched/schedule/events"
	alertsTopic = "wellsched/simops/alerts"
)

// Config defines the connection parameters for the Paho MQTT notifier.
type Config struct {
	Broker       string          `json:"broker"`
	ClientID     string          `json:"client_id"`
	Username     string          `json:"username"`
	Password     string          `json:"password"`
	ConfirmTopic string          `json:"confirm_topic"`
	UseTLS       bool            `json:"use_tls"`
	ClientCert   string          `json:"client_cert"`
	ClientKey    string          `json:"client_key"`
	CABundle     string          `json:"ca_bundle"`
	AuthMethod   string          `json:"auth_method"`
	QoS          map[string]byte `json:"qos"`
	LWTTopic     string          `json:"lwt_topic"`
	LWTPayload   string          `json:"lwt_payload"`
	LWTQoS       byte            `json:"lwt_qos"`
	LWTRetain    bool            `json:"lwt_retain"`
	MaxRetries   int             `json:"max_retries"`
	BackoffMS    int             `json:"backoff_ms"`
	TLSConfig    *tls.Config     `json:"-"`
}

// pahoClient is the subset of the Eclipse Paho client used by the notifier.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

// PahoNotifier publishes runs and simops alerts over MQTT using Eclipse Paho.
type PahoNotifier struct {
	cli          pahoClient
	confirmTopic string
	qos          map[string]byte

	mu           sync.Mutex
	confirmChans map[string]chan struct{}
	logger       logger.Logger
	lwtTopic     string
	lwtPayload   string
	lwtQoS       byte
	lwtRetain    bool
	maxRetries   int
	backoff      time.Duration
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewPahoNotifier connects to the MQTT broker and subscribes to the
// confirmation topic.
func NewPahoNotifier(cfg Config) (*PahoNotifier, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	logger := logger.New("mqtt_notifier")
	pn := &PahoNotifier{confirmTopic: cfg.ConfirmTopic,
		confirmChans: make(map[string]chan struct{}),
		logger:       logger,
		qos:          cfg.QoS,
		lwtTopic:     cfg.LWTTopic,
		lwtPayload:   cfg.LWTPayload,
		lwtQoS:       cfg.LWTQoS,
		lwtRetain:    cfg.LWTRetain,
		maxRetries:   cfg.MaxRetries,
		backoff:      time.Duration(cfg.BackoffMS) * time.Millisecond,
	}

	opts.OnConnect = func(c paho.Client) {
		logger.Infof("MQTT connected")
		if pn.confirmTopic == "" {
			return
		}
		qos := byte(0)
		if q, ok := pn.qos["confirm"]; ok {
			qos = q
		}
		if token := c.Subscribe(pn.confirmTopic, qos, pn.onConfirm); token.Wait() && token.Error() != nil {
			logger.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		logger.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		logger.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	pn.cli = c
	return pn, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.AuthMethod == "username_password" || cfg.AuthMethod == "both" || cfg.AuthMethod == "" {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}
	return cfg, nil
}

func (p *PahoNotifier) onConfirm(_ paho.Client, msg paho.Message) {
	var m struct {
		MessageID string `json:"message_id"`
	}
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		p.logger.Errorf("failed to decode confirmation: %v", err)
		return
	}
	p.mu.Lock()
	ch, ok := p.confirmChans[m.MessageID]
	if ok {
		select {
		case ch <- struct{}{}:
		default:
		}
		p.logger.Infof("received confirmation %s", m.MessageID)
	}
	p.mu.Unlock()
}

// PublishRun publishes the flattened run record and returns the message
// identifier used for confirmation tracking.
func (p *PahoNotifier) PublishRun(rec runlog.Record) (string, error) {
	msgID := uuid.NewString()
	envelope := struct {
		MessageID string        `json:"message_id"`
		Record    runlog.Record `json:"record"`
		Timestamp int64         `json:"timestamp"`
	}{
		MessageID: msgID,
		Record:    rec,
		Timestamp: time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	if err := p.publish(runsTopic, p.qosFor("run"), payload, map[string]string{"run_id": rec.RunID}); err != nil {
		return "", err
	}

	p.mu.Lock()
	p.confirmChans[msgID] = make(chan struct{}, 1)
	p.mu.Unlock()

	return msgID, nil
}

// PublishConflicts publishes a simops alert for the given run. Nothing is
// published when there are no conflict pairs.
func (p *PahoNotifier) PublishConflicts(runID string, pairs []simops.ConflictPair) error {
	if len(pairs) == 0 {
		return nil
	}
	alert := struct {
		MessageID string                `json:"message_id"`
		RunID     string                `json:"run_id"`
		Conflicts []simops.ConflictPair `json:"conflicts"`
		Timestamp int64                 `json:"timestamp"`
	}{
		MessageID: uuid.NewString(),
		RunID:     runID,
		Conflicts: pairs,
		Timestamp: time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return p.publish(alertsTopic, p.qosFor("alert"), payload, map[string]string{"run_id": runID})
}

func (p *PahoNotifier) publish(topic string, qos byte, payload []byte, tags map[string]string) error {
	if p.maxRetries <= 0 {
		p.maxRetries = 3
	}
	if p.backoff <= 0 {
		p.backoff = 100 * time.Millisecond
	}
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Infof("published to %s", topic)
			break
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		time.Sleep(p.backoff * time.Duration(1<<attempt))
	}
	if publishErr != nil {
		if tags == nil {
			tags = map[string]string{}
		}
		tags["module"] = "mqtt"
		monitoring.CaptureException(publishErr, tags)
	}
	return publishErr
}

func (p *PahoNotifier) qosFor(kind string) byte {
	if q, ok := p.qos[kind]; ok {
		return q
	}
	return 0
}

// AwaitConfirmation blocks until a confirmation for the given message ID is
// received or the timeout elapses.
func (p *PahoNotifier) AwaitConfirmation(messageID string, timeout time.Duration) (bool, error) {
	p.mu.Lock()
	ch := p.confirmChans[messageID]
	p.mu.Unlock()
	if ch == nil {
		return false, fmt.Errorf("unknown message")
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
		p.mu.Lock()
		delete(p.confirmChans, messageID)
		p.mu.Unlock()
		return true, nil
	case <-timer.C:
		p.mu.Lock()
		delete(p.confirmChans, messageID)
		p.mu.Unlock()
		return false, fmt.Errorf("%w", notify.ErrConfirmTimeout)
	}
}

// Close gracefully closes the MQTT connection.
func (p *PahoNotifier) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
	return nil
}
