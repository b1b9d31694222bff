// Package otelbro provides OpenTelemetry instrumentation helpers for bro.
package otelbro

import (
	"go.opentelemetry.io/otel/attribute"
)

const (
	AnalyzerNameKey = attribute.Key("bro.analyzer.name")
	DNSHostKey      = attribute.Key("bro.dns.host")
	DNSAddrKey      = attribute.Key("bro.dns.addr")
	RequestIDKey    = attribute.Key("bro.request.id")
	AddrFamilyKey   = attribute.Key("bro.addr.family")
	ErrorNameKey    = attribute.Key("bro.error.name")
)

// AnalyzerName attribute.
func AnalyzerName(v string) attribute.KeyValue {
	return attribute.KeyValue{
		Key:   AnalyzerNameKey,
		Value: attribute.StringValue(v),
	}
}

// DNSHost attribute.
func DNSHost(v string) attribute.KeyValue {
	return attribute.KeyValue{
		Key:   DNSHostKey,
		Value: attribute.StringValue(v),
	}
}

// DNSAddr attribute.
func DNSAddr(v string) attribute.KeyValue {
	return attribute.KeyValue{
		Key:   DNSAddrKey,
		Value: attribute.StringValue(v),
	}
}

// RequestID attribute.
func RequestID(v string) attribute.KeyValue {
	return attribute.KeyValue{
		Key:   RequestIDKey,
		Value: attribute.StringValue(v),
	}
}

// AddrFamily attribute.
func AddrFamily(v string) attribute.KeyValue {
	return attribute.KeyValue{
		Key:   AddrFamilyKey,
		Value: attribute.StringValue(v),
	}
}

// ErrorName attribute.
func ErrorName(v string) attribute.KeyValue {
	return attribute.KeyValue{
		Key:   ErrorNameKey,
		Value: attribute.StringValue(v),
	}
}
