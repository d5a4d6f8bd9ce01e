package repository

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Количество задач в файле после последнего чтения или записи
	storedItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "todos_store_items",
			Help: "Number of to-do items in the backing file",
		},
	)

	// Операции с файлом по типу и результату
	storeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todos_store_operations_total",
			Help: "Total number of backing file operations",
		},
		[]string{"op", "result"},
	)
)

func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeOperations.WithLabelValues(op, result).Inc()
}
