package mm

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metricas agrupa los contadores por proceso de la biblioteca de memoria.
// Un *Metricas nil es válido y no registra nada.
type Metricas struct {
	fallosPagina      *prometheus.CounterVec
	bajadasSwap       *prometheus.CounterVec
	subidasMemoria    *prometheus.CounterVec
	lecturas          *prometheus.CounterVec
	escrituras        *prometheus.CounterVec
	asignaciones      *prometheus.CounterVec
	crecimientoHeap   *prometheus.CounterVec
	paginasResidentes *prometheus.GaugeVec
}

// NuevasMetricas registra los contadores en reg
func NuevasMetricas(reg prometheus.Registerer) *Metricas {
	return &Metricas{
		fallosPagina: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "memoria_fallos_pagina_total",
			Help: "Fallos de página resueltos con reemplazo.",
		}, []string{"pid"}),
		bajadasSwap: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "memoria_bajadas_swap_total",
			Help: "Páginas víctima copiadas a swap.",
		}, []string{"pid"}),
		subidasMemoria: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "memoria_subidas_memoria_total",
			Help: "Páginas traídas de swap a memoria principal.",
		}, []string{"pid"}),
		lecturas: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "memoria_lecturas_total",
			Help: "Lecturas de un byte completadas.",
		}, []string{"pid"}),
		escrituras: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "memoria_escrituras_total",
			Help: "Escrituras de un byte completadas.",
		}, []string{"pid"}),
		asignaciones: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "memoria_asignaciones_total",
			Help: "Pedidos de asignación de regiones por resultado.",
		}, []string{"pid", "resultado"}),
		crecimientoHeap: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "memoria_crecimiento_heap_bytes_total",
			Help: "Bytes pedidos al crecer el heap.",
		}, []string{"pid"}),
		paginasResidentes: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "memoria_paginas_residentes",
			Help: "Páginas presentes en memoria principal.",
		}, []string{"pid"}),
	}
}

func (m *Metricas) falloPagina(pid int) {
	if m == nil {
		return
	}
	m.fallosPagina.WithLabelValues(strconv.Itoa(pid)).Inc()
}

func (m *Metricas) bajada(pid int) {
	if m == nil {
		return
	}
	m.bajadasSwap.WithLabelValues(strconv.Itoa(pid)).Inc()
}

func (m *Metricas) subida(pid int) {
	if m == nil {
		return
	}
	m.subidasMemoria.WithLabelValues(strconv.Itoa(pid)).Inc()
}

func (m *Metricas) lectura(pid int) {
	if m == nil {
		return
	}
	m.lecturas.WithLabelValues(strconv.Itoa(pid)).Inc()
}

func (m *Metricas) escritura(pid int) {
	if m == nil {
		return
	}
	m.escrituras.WithLabelValues(strconv.Itoa(pid)).Inc()
}

func (m *Metricas) asignacion(pid int, err error) {
	if m == nil {
		return
	}
	resultado := "ok"
	if err != nil {
		resultado = Clase(err)
	}
	m.asignaciones.WithLabelValues(strconv.Itoa(pid), resultado).Inc()
}

func (m *Metricas) crecimiento(pid, bytes int) {
	if m == nil {
		return
	}
	m.crecimientoHeap.WithLabelValues(strconv.Itoa(pid)).Add(float64(bytes))
}

func (m *Metricas) residentes(pid, cantidad int) {
	if m == nil {
		return
	}
	m.paginasResidentes.WithLabelValues(strconv.Itoa(pid)).Set(float64(cantidad))
}

// olvidar borra las series de un proceso liberado
func (m *Metricas) olvidar(pid int) {
	if m == nil {
		return
	}
	etiqueta := prometheus.Labels{"pid": strconv.Itoa(pid)}
	m.fallosPagina.DeletePartialMatch(etiqueta)
	m.bajadasSwap.DeletePartialMatch(etiqueta)
	m.subidasMemoria.DeletePartialMatch(etiqueta)
	m.lecturas.DeletePartialMatch(etiqueta)
	m.escrituras.DeletePartialMatch(etiqueta)
	m.asignaciones.DeletePartialMatch(etiqueta)
	m.crecimientoHeap.DeletePartialMatch(etiqueta)
	m.paginasResidentes.DeletePartialMatch(etiqueta)
}
