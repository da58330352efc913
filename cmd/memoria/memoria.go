package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/memfisica"
	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/mm"
	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/syscalls"
	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/utils"
)

var (
	errProcesoInexistente = errors.New("proceso inexistente")
	errProcesoDuplicado   = errors.New("el proceso ya tiene espacio de direcciones")
)

// Memoria es el estado del módulo: los dispositivos compartidos por todos los
// procesos, la tabla de syscalls y el espacio de direcciones de cada PID.
type Memoria struct {
	config      *MemoryConfig
	geometria   mm.Config
	fs          afero.Fs
	ram         *memfisica.Memoria
	swap        *memfisica.Memoria
	syscalls    *syscalls.Tabla
	despachador *syscalls.Despachador
	metricas    *mm.Metricas
	observador  mm.Observador

	mu       sync.RWMutex
	procesos map[int]*mm.Proceso
}

func nuevaMemoria(config *MemoryConfig, fs afero.Fs, reg prometheus.Registerer, salida io.Writer) (*Memoria, error) {
	if err := config.validar(); err != nil {
		return nil, errors.Wrap(err, "configuración inválida")
	}
	geometria := config.geometria()

	utils.InfoLog.Info("Inicializando memoria",
		"tamaño_ram", config.MemorySize,
		"tamaño_swap", config.SwapSize,
		"tamaño_página", geometria.TamPagina,
		"max_paginas", geometria.MaxPaginas,
		"reclamar_slot_swap", geometria.ReclamarSlotSwap)

	if err := fs.MkdirAll(filepath.Dir(config.SwapfilePath), 0755); err != nil {
		return nil, errors.Wrapf(err, "error al crear directorio para swap")
	}
	if config.DumpPath != "" {
		if err := fs.MkdirAll(config.DumpPath, 0755); err != nil {
			utils.InfoLog.Warn("No se pudo crear directorio para dumps", "error", err)
		}
	}

	ram, err := memfisica.NuevaRAM(config.MemorySize, geometria.TamPagina)
	if err != nil {
		return nil, err
	}
	swap, err := memfisica.NuevaSwap(fs, config.SwapfilePath, config.SwapSize, geometria.TamPagina)
	if err != nil {
		return nil, err
	}

	tabla := syscalls.NuevaTabla(ram, swap)
	tabla.RetardoMemoria = config.MemoryDelay
	tabla.RetardoSwap = config.SwapDelay
	tabla.RegistrarMetricas(reg)

	m := &Memoria{
		config:      config,
		geometria:   geometria,
		fs:          fs,
		ram:         ram,
		swap:        swap,
		syscalls:    tabla,
		despachador: syscalls.NuevoDespachador(tabla),
		metricas:    mm.NuevasMetricas(reg),
		procesos:    make(map[int]*mm.Proceso),
	}
	if config.IODump {
		m.observador = mm.NuevoVolcador(salida, config.PageTableDump)
	}

	utils.InfoLog.Info("Memoria completamente inicializada",
		"marcos", ram.CantidadMarcos(),
		"slots_swap", swap.CantidadMarcos())
	return m, nil
}

func (m *Memoria) inicializarProceso(pid int) (*mm.Proceso, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, existe := m.procesos[pid]; existe {
		return nil, errors.Wrapf(errProcesoDuplicado, "pid %d", pid)
	}

	p, err := mm.NuevoProceso(pid, m.geometria, m.ram, m.swap, m.despachador)
	if err != nil {
		return nil, err
	}
	p.Metricas = m.metricas
	p.Observador = m.observador

	m.procesos[pid] = p
	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Proceso Creado", pid))
	return p, nil
}

func (m *Memoria) proceso(pid int) (*mm.Proceso, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, existe := m.procesos[pid]
	if !existe {
		return nil, errors.Wrapf(errProcesoInexistente, "pid %d", pid)
	}
	return p, nil
}

// finalizarProceso libera toda la memoria del proceso y lo olvida
func (m *Memoria) finalizarProceso(pid int) error {
	m.mu.Lock()
	p, existe := m.procesos[pid]
	delete(m.procesos, pid)
	m.mu.Unlock()

	if !existe {
		return errors.Wrapf(errProcesoInexistente, "pid %d", pid)
	}
	if err := p.LiberarMemoria(); err != nil {
		return err
	}

	utils.InfoLog.Info(fmt.Sprintf("## PID: %d - Proceso Destruido", pid))
	return nil
}

func (m *Memoria) cerrar() error {
	return m.swap.Cerrar()
}
