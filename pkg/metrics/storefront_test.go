package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStorefrontMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewStorefrontMetrics(reg)

	metrics.IncCheckout("success")
	metrics.IncUpload("local")
	metrics.IncUpload("gcs")
	metrics.IncCatalogFallback("memory_filter")
	metrics.ObserveRequest("/api/products", "GET", 120*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "checkout_total", "outcome", "success"); err != nil {
		t.Fatalf("fetch checkout: %v", err)
	} else if got != 1 {
		t.Fatalf("expected checkout=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "upload_total", "backend", "gcs"); err != nil {
		t.Fatalf("fetch upload: %v", err)
	} else if got != 1 {
		t.Fatalf("expected gcs upload=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "catalog_fallback_total", "reason", "memory_filter"); err != nil {
		t.Fatalf("fetch fallback: %v", err)
	} else if got != 1 {
		t.Fatalf("expected fallback=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/products"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestStorefrontMetricsNilSafe(t *testing.T) {
	var metrics *StorefrontMetrics
	metrics.IncCheckout("success")
	metrics.IncUpload("local")
	metrics.IncCatalogFallback("memory_filter")
	metrics.ObserveRequest("/", "GET", time.Millisecond)

	empty := NewStorefrontMetrics(nil)
	empty.IncCheckout("success")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
