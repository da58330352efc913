package main

import (
	"fmt"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/mm"
)

// MemoryConfig representa la configuración específica del módulo Memoria
type MemoryConfig struct {
	IPMemory        string `json:"IP_MEMORIA" yaml:"IP_MEMORIA"`
	PortMemory      int    `json:"PUERTO_MEMORIA" yaml:"PUERTO_MEMORIA"`
	LogLevel        string `json:"LOG_LEVEL" yaml:"LOG_LEVEL"`
	MemorySize      int    `json:"TAM_MEMORIA" yaml:"TAM_MEMORIA"`   // Tamaño de la RAM en bytes
	PageSize        int    `json:"TAM_PAGINA" yaml:"TAM_PAGINA"`     // Tamaño de página en bytes
	SwapSize        int    `json:"TAM_SWAP" yaml:"TAM_SWAP"`         // Tamaño del swap en bytes
	MaxPages        int    `json:"MAX_PAGINAS" yaml:"MAX_PAGINAS"`   // Entradas de la tabla de páginas
	MaxSymbols      int    `json:"MAX_SIMBOLOS" yaml:"MAX_SIMBOLOS"` // Regiones por proceso
	MemoryDelay     int    `json:"RETARDO_MEMORIA" yaml:"RETARDO_MEMORIA"`
	SwapDelay       int    `json:"RETARDO_SWAP" yaml:"RETARDO_SWAP"`
	SwapfilePath    string `json:"SWAPFILE_PATH" yaml:"SWAPFILE_PATH"`
	DumpPath        string `json:"DUMP_PATH" yaml:"DUMP_PATH"`
	ReclaimSwapSlot bool   `json:"RECLAMAR_SLOT_SWAP" yaml:"RECLAMAR_SLOT_SWAP"`
	IODump          bool   `json:"IODUMP" yaml:"IODUMP"`             // Volcar cada operación por stdout
	PageTableDump   bool   `json:"PAGETBL_DUMP" yaml:"PAGETBL_DUMP"` // Incluir la tabla de páginas en el volcado
}

// geometria arma la configuración de la biblioteca de memoria, con los valores
// por defecto para lo que no venga en el archivo
func (c *MemoryConfig) geometria() mm.Config {
	cfg := mm.ConfigPorDefecto()
	if c.PageSize > 0 {
		cfg.TamPagina = c.PageSize
	}
	if c.MaxPages > 0 {
		cfg.MaxPaginas = c.MaxPages
	}
	if c.MaxSymbols > 0 {
		cfg.MaxSimbolos = c.MaxSymbols
	}
	cfg.ReclamarSlotSwap = c.ReclaimSwapSlot
	return cfg
}

func (c *MemoryConfig) validar() error {
	if c.MemorySize <= 0 || c.SwapSize <= 0 {
		return fmt.Errorf("TAM_MEMORIA y TAM_SWAP deben ser positivos")
	}
	if c.SwapfilePath == "" {
		return fmt.Errorf("falta SWAPFILE_PATH")
	}
	return c.geometria().Validar()
}
