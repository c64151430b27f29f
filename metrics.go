// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compression

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName identifies this instrumentation scope.
const meterName = "rivaas.dev/compression"

type meterProvider = metric.MeterProvider

// recorder holds the OpenTelemetry instruments for compressed responses.
// A nil recorder is valid and records nothing.
type recorder struct {
	responses    metric.Int64Counter
	sourceBytes  metric.Int64Counter
	emittedBytes metric.Int64Counter
}

// newRecorder builds instruments when metrics are enabled. Instrument
// creation failures disable recording instead of failing middleware setup.
func newRecorder(cfg *config) *recorder {
	if !cfg.metricsEnabled {
		return nil
	}

	mp := cfg.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	responses, err := meter.Int64Counter("compression.responses",
		metric.WithDescription("Responses compressed, by content-coding."))
	if err != nil {
		logInstrumentError(cfg, err)
		return nil
	}

	sourceBytes, err := meter.Int64Counter("compression.source.bytes",
		metric.WithDescription("Body bytes entering the compressor."),
		metric.WithUnit("By"))
	if err != nil {
		logInstrumentError(cfg, err)
		return nil
	}

	emittedBytes, err := meter.Int64Counter("compression.emitted.bytes",
		metric.WithDescription("Compressed body bytes written to the transport."),
		metric.WithUnit("By"))
	if err != nil {
		logInstrumentError(cfg, err)
		return nil
	}

	return &recorder{
		responses:    responses,
		sourceBytes:  sourceBytes,
		emittedBytes: emittedBytes,
	}
}

func logInstrumentError(cfg *config, err error) {
	if cfg.logger != nil {
		cfg.logger.Error("compression metrics disabled: instrument creation failed", "error", err)
	}
}

func (r *recorder) record(ctx context.Context, encoding string, in, out int64) {
	if r == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("encoding", encoding))
	r.responses.Add(ctx, 1, attrs)
	r.sourceBytes.Add(ctx, in, attrs)
	r.emittedBytes.Add(ctx, out, attrs)
}
