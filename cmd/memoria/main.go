package main

import (
	"context"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/utils"
)

func main() {
	app := kingpin.New("memoria", "Módulo Memoria: administra el heap, la tabla de páginas y el swap de cada proceso.")
	rutaConfig := app.Arg("config", "Archivo de configuración (JSON o YAML).").Required().ExistingFile()
	nivelLog := app.Flag("log.level", "Pisa el LOG_LEVEL del archivo de configuración.").String()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	os.Exit(ejecutar(*rutaConfig, *nivelLog))
}

func ejecutar(rutaConfig, nivelLog string) int {
	// Inicializar logger ANTES de usarlo
	utils.InicializarLogger("INFO", "Memoria")
	utils.InfoLog.Info("Iniciando módulo Memoria")

	config := utils.CargarConfiguracion[MemoryConfig](rutaConfig)
	if nivelLog == "" {
		nivelLog = config.LogLevel
	}
	utils.InicializarLogger(nivelLog, "Memoria")
	utils.InfoLog.Info("Configuración cargada", "nivel_log", nivelLog, "config_path", rutaConfig)

	reg := nuevoRegistro()
	memoria, err := nuevaMemoria(config, afero.NewOsFs(), reg, os.Stdout)
	if err != nil {
		utils.ErrorLog.Error("Error al inicializar la memoria", "error", err)
		return 1
	}
	defer memoria.cerrar()

	modulo := utils.NuevoModulo("Memoria", rutaConfig)
	memoria.registrarHandlers(modulo)
	servidor := modulo.CrearServidor(config.IPMemory, config.PortMemory)
	servidor.Handle("/metrics", handlerMetricas(reg))

	var g run.Group
	g.Add(func() error {
		return servidor.Start()
	}, func(error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := servidor.Stop(ctx); err != nil {
			utils.ErrorLog.Error("Error deteniendo el servidor", "error", err)
		}
	})
	g.Add(run.SignalHandler(context.Background(), os.Interrupt, syscall.SIGTERM))

	utils.InfoLog.Info("Memoria inicializada correctamente", "ip", config.IPMemory, "puerto", config.PortMemory)

	err = g.Run()
	var senial run.SignalError
	switch {
	case errors.As(err, &senial):
		utils.InfoLog.Info("Memoria finalizada", "señal", senial.Signal.String())
	case err != nil && !errors.Is(err, http.ErrServerClosed):
		utils.ErrorLog.Error("Memoria finalizada con error", "error", err)
		return 1
	}
	return 0
}
