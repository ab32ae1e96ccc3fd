package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/hyperledger-labs/yui-relay-core/log"
)

const (
	namespaceRoot = "relayer"
)

// The instruments are no-op until InitializeMetrics is called.
var (
	ClientUpdateCounter       api.Int64Counter = noop.Int64Counter{}
	ClientMisbehaviourCounter api.Int64Counter = noop.Int64Counter{}
	RelayedPacketsCounter     api.Int64Counter = noop.Int64Counter{}
	BatchMessagesCounter      api.Int64Counter = noop.Int64Counter{}
	BatchQueueGauge           *Int64SyncGauge
	BacklogSizeGauge          *Int64SyncGauge

	meter = otel.Meter(name)
)

func InitializeMetrics() error {
	var err error

	newCounter := func(suffix, description string) (api.Int64Counter, error) {
		name := fmt.Sprintf("%s.%s", namespaceRoot, suffix)
		c, err := meter.Int64Counter(name, api.WithUnit("1"), api.WithDescription(description))
		if err != nil {
			return nil, fmt.Errorf("failed to create the instrument %s: %v", name, err)
		}
		return c, nil
	}
	newGauge := func(suffix, description string) (*Int64SyncGauge, error) {
		name := fmt.Sprintf("%s.%s", namespaceRoot, suffix)
		g, err := NewInt64SyncGauge(meter, name, api.WithUnit("1"), api.WithDescription(description))
		if err != nil {
			return nil, fmt.Errorf("failed to create the instrument %s: %v", name, err)
		}
		return g, nil
	}

	if ClientUpdateCounter, err = newCounter("client_updates", "number of client updates by result"); err != nil {
		return err
	}
	if ClientMisbehaviourCounter, err = newCounter("client_misbehaviours", "number of client updates that detected misbehaviour"); err != nil {
		return err
	}
	if RelayedPacketsCounter, err = newCounter("relayed_packets", "number of packets relayed by kind"); err != nil {
		return err
	}
	if BatchMessagesCounter, err = newCounter("batch_messages", "number of messages submitted by batch workers"); err != nil {
		return err
	}
	if BatchQueueGauge, err = newGauge("batch_queue", "number of batches waiting in the messages channel"); err != nil {
		return err
	}
	if BacklogSizeGauge, err = newGauge("backlog_size", "number of packets that are unreceived"); err != nil {
		return err
	}

	return nil
}

func ClientAttributes(chainID, clientID string) api.MeasurementOption {
	return api.WithAttributes(
		attribute.String("chain_id", chainID),
		attribute.String("client_id", clientID),
	)
}

func ClientUpdateAttributes(chainID, clientID, result string) api.MeasurementOption {
	return api.WithAttributes(
		attribute.String("chain_id", chainID),
		attribute.String("client_id", clientID),
		attribute.String("result", result),
	)
}

func ChainAttributes(chainID string) api.MeasurementOption {
	return api.WithAttributes(
		attribute.String("chain_id", chainID),
	)
}

func RelayAttributes(chainID, kind string) api.MeasurementOption {
	return api.WithAttributes(
		attribute.String("chain_id", chainID),
		attribute.String("kind", kind),
	)
}

func NewPrometheusExporter(addr string) (*prometheus.Exporter, error) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", otelhttp.NewHandler(promhttp.Handler(), "metrics"))
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger := log.GetLogger().WithModule("telemetry")
			logger.Fatal("Prometheus exporter server failed", err)
		}
	}()

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create the Prometheus Exporter: %v", err)
	}

	return exporter, nil
}

type Int64WithAttributes struct {
	value int64
	attrs attribute.Set
}

// Int64SyncGauge is an observable gauge whose value is set synchronously.
// A nil gauge discards all values.
type Int64SyncGauge struct {
	gauge         api.Int64ObservableGauge
	mutex         *sync.RWMutex
	attrsValueMap map[string]*Int64WithAttributes
}

func NewInt64SyncGauge(meter api.Meter, name string, options ...api.Int64ObservableGaugeOption) (*Int64SyncGauge, error) {
	mutex := &sync.RWMutex{}
	attrsValueMap := make(map[string]*Int64WithAttributes)
	callback := func(ctx context.Context, observer api.Int64Observer) error {
		mutex.RLock()
		defer mutex.RUnlock()
		for _, entry := range attrsValueMap {
			observer.Observe(entry.value, api.WithAttributeSet(entry.attrs))
		}
		return nil
	}
	options = append(options, api.WithInt64Callback(callback))
	gauge, err := meter.Int64ObservableGauge(name, options...)
	if err != nil {
		return nil, err
	}
	return &Int64SyncGauge{gauge, mutex, attrsValueMap}, nil
}

func (g *Int64SyncGauge) Set(value int64, attr ...attribute.KeyValue) {
	if g == nil {
		return
	}
	g.mutex.Lock()
	defer g.mutex.Unlock()
	attrs := attribute.NewSet(attr...)
	encodedAttrs := attrs.Encoded(attribute.DefaultEncoder())
	g.attrsValueMap[encodedAttrs] = &Int64WithAttributes{value, attrs}
}

// Get returns the value last set with `attr`
func (g *Int64SyncGauge) Get(attr ...attribute.KeyValue) (int64, bool) {
	if g == nil {
		return 0, false
	}
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	attrs := attribute.NewSet(attr...)
	entry, ok := g.attrsValueMap[attrs.Encoded(attribute.DefaultEncoder())]
	if !ok {
		return 0, false
	}
	return entry.value, true
}
