package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the module.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	RegistryOperationKey = "registry.operation"
	RegistryRegionKey    = "registry.region"
	RegistryCategoryKey  = "registry.category"
	RegistryRecordIDKey  = "registry.record_id"

	CacheResultKey = "cache.result"

	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// RegistryAttributes creates registry-operation span attributes. Zero values
// are omitted.
func RegistryAttributes(operation string, region, category, recordID int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(RegistryOperationKey, operation),
	}
	if region > 0 {
		attrs = append(attrs, attribute.Int(RegistryRegionKey, region))
	}
	if category > 0 {
		attrs = append(attrs, attribute.Int(RegistryCategoryKey, category))
	}
	if recordID > 0 {
		attrs = append(attrs, attribute.Int(RegistryRecordIDKey, recordID))
	}
	return attrs
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
