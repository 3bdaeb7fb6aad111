package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremetrics "github.com/kilianp07/foundry/core/metrics"
	"github.com/kilianp07/foundry/infra/logger"
)

// DefaultTopicPrefix is used when Config.TopicPrefix is empty.
const DefaultTopicPrefix = "foundry"

// Config defines the connection parameters for the result publisher.
type Config struct {
	Broker      string      `json:"broker"`
	ClientID    string      `json:"client_id"`
	Username    string      `json:"username"`
	Password    string      `json:"password"`
	TopicPrefix string      `json:"topic_prefix"`
	QoS         byte        `json:"qos"`
	Retain      bool        `json:"retain"`
	UseTLS      bool        `json:"use_tls"`
	ClientCert  string      `json:"client_cert"`
	ClientKey   string      `json:"client_key"`
	CABundle    string      `json:"ca_bundle"`
	LWTTopic    string      `json:"lwt_topic"`
	LWTPayload  string      `json:"lwt_payload"`
	MaxRetries  int         `json:"max_retries"`
	BackoffMS   int         `json:"backoff_ms"`
	TLSConfig   *tls.Config `json:"-"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Publisher sends search and evaluation results to an MQTT broker as JSON.
// Instance results go to <prefix>/instances/<id> and evaluation reports to
// <prefix>/report.
type Publisher struct {
	cli    pahoClient
	prefix string
	qos    byte
	retain bool

	mu         sync.Mutex
	logger     logger.Logger
	maxRetries int
	backoff    time.Duration
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewPublisher connects to the broker.
func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt: broker is required")
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt_publisher")
	p := &Publisher{
		prefix:     strings.TrimSuffix(cfg.TopicPrefix, "/"),
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		logger:     log,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
	}
	if p.prefix == "" {
		p.prefix = DefaultTopicPrefix
	}
	if p.maxRetries <= 0 {
		p.maxRetries = 3
	}
	if p.backoff <= 0 {
		p.backoff = 100 * time.Millisecond
	}

	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	p.cli = c
	return p, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.QoS, false)
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
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

type searchPayload struct {
	RunID      string `json:"run_id"`
	Economy    int    `json:"economy"`
	Horizon    int    `json:"horizon"`
	Score      int    `json:"score"`
	Nodes      int    `json:"nodes"`
	Pruned     int    `json:"pruned"`
	Duplicates int    `json:"duplicates"`
	Capped     int    `json:"capped"`
	Exhaustive bool   `json:"exhaustive"`
	ElapsedMS  int64  `json:"elapsed_ms"`
	Timestamp  int64  `json:"timestamp"`
}

type evaluationPayload struct {
	RunID      string `json:"run_id"`
	Mode       string `json:"mode"`
	Horizon    int    `json:"horizon"`
	Instances  int    `json:"instances"`
	Value      int    `json:"value"`
	Exhaustive bool   `json:"exhaustive"`
	ElapsedMS  int64  `json:"elapsed_ms"`
	Timestamp  int64  `json:"timestamp"`
}

// InstanceTopic returns the topic carrying results for economy id.
func (p *Publisher) InstanceTopic(id int) string {
	return p.prefix + "/instances/" + strconv.Itoa(id)
}

// ReportTopic returns the topic carrying evaluation reports.
func (p *Publisher) ReportTopic() string { return p.prefix + "/report" }

// RecordSearch publishes one instance result.
func (p *Publisher) RecordSearch(rec coremetrics.SearchRecord) error {
	return p.publish(p.InstanceTopic(rec.Economy), searchPayload{
		RunID:      rec.RunID,
		Economy:    rec.Economy,
		Horizon:    rec.Horizon,
		Score:      rec.Score,
		Nodes:      rec.Nodes,
		Pruned:     rec.Pruned,
		Duplicates: rec.Duplicates,
		Capped:     rec.Capped,
		Exhaustive: rec.Exhaustive,
		ElapsedMS:  rec.Elapsed.Milliseconds(),
		Timestamp:  rec.Time.UnixMilli(),
	})
}

// RecordEvaluation publishes an evaluation report.
func (p *Publisher) RecordEvaluation(rec coremetrics.EvaluationRecord) error {
	return p.publish(p.ReportTopic(), evaluationPayload{
		RunID:      rec.RunID,
		Mode:       rec.Mode,
		Horizon:    rec.Horizon,
		Instances:  rec.Instances,
		Value:      rec.Value,
		Exhaustive: rec.Exhaustive,
		ElapsedMS:  rec.Elapsed.Milliseconds(),
		Timestamp:  rec.Time.UnixMilli(),
	})
}

// publish retries with exponential backoff until the broker accepts the
// message or the retries are spent.
func (p *Publisher) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Debugf("published %d bytes to %s", len(payload), topic)
			return nil
		}
		p.logger.Errorf("publish attempt %d to %s failed: %v", attempt+1, topic, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// Close gracefully closes the MQTT connection.
func (p *Publisher) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
	return nil
}

var (
	_ coremetrics.Sink               = (*Publisher)(nil)
	_ coremetrics.EvaluationRecorder = (*Publisher)(nil)
	_ coremetrics.Closer             = (*Publisher)(nil)
)
