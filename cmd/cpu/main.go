package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"

	"github.com/sisoputnfrba/tp-2025-1c-LosCuervosXeneizes-libmem/utils"
)

func main() {
	app := kingpin.New("cpu", "Módulo CPU: ejecuta scripts de ALLOC/FREE/READ/WRITE contra la Memoria, un hilo por script.")
	rutaConfig := app.Arg("config", "Archivo de configuración (JSON o YAML).").Required().ExistingFile()
	rutasScripts := app.Arg("scripts", "Scripts a ejecutar, uno por hilo.").Required().ExistingFiles()
	pid := app.Flag("pid", "PID del proceso en la Memoria.").Default("1").Int()
	nivelLog := app.Flag("log.level", "Pisa el LOG_LEVEL del archivo de configuración.").String()
	finalizar := app.Flag("finalizar", "Libera el espacio de direcciones al terminar.").Default("true").Bool()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	os.Exit(ejecutar(*rutaConfig, *rutasScripts, *pid, *nivelLog, *finalizar))
}

func ejecutar(rutaConfig string, rutasScripts []string, pid int, nivelLog string, finalizar bool) int {
	nombre := fmt.Sprintf("CPU-%d", pid)
	utils.InicializarLogger("INFO", nombre)

	config := utils.CargarConfiguracion[CPUConfig](rutaConfig)
	if nivelLog == "" {
		nivelLog = config.LogLevel
	}
	utils.InicializarLogger(nivelLog, nombre)

	scripts, err := cargarScripts(rutasScripts)
	if err != nil {
		utils.ErrorLog.Error("Error cargando scripts", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cliente := utils.NewHTTPClient(config.IPMemory, config.PortMemory, nombre)
	if err := conectarConReintentos(ctx, cliente, 2*time.Second); err != nil {
		utils.ErrorLog.Error("Error conectando con la Memoria", "error", err)
		return 1
	}

	memoria := nuevoClienteMemoria(cliente)
	if err := memoria.InicializarProceso(pid); err != nil {
		utils.ErrorLog.Error("Error inicializando el proceso", "pid", pid, "error", err)
		return 1
	}

	inicio := time.Now()
	resumen, err := nuevaCPU(memoria, pid).ejecutar(ctx, scripts, config.MaxThreads)
	utils.InfoLog.Info("Ejecución terminada",
		"pid", pid,
		"hilos", len(scripts),
		"ejecutadas", resumen.Ejecutadas,
		"rechazadas", resumen.Rechazadas,
		"duración", time.Since(inicio).String())

	codigo := 0
	if err != nil {
		utils.ErrorLog.Error("Ejecución abortada", "pid", pid, "error", err)
		codigo = 1
	}

	if finalizar {
		if err := memoria.FinalizarProceso(pid); err != nil {
			utils.ErrorLog.Error("Error finalizando el proceso", "pid", pid, "error", err)
			codigo = 1
		}
	}
	return codigo
}

func cargarScripts(rutas []string) ([][]Instruccion, error) {
	scripts := make([][]Instruccion, 0, len(rutas))
	for _, ruta := range rutas {
		f, err := os.Open(ruta)
		if err != nil {
			return nil, errors.Wrapf(err, "abriendo %s", ruta)
		}
		script, err := parsearScript(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "parseando %s", ruta)
		}
		utils.InfoLog.Debug("Script cargado", "ruta", ruta, "instrucciones", len(script))
		scripts = append(scripts, script)
	}
	return scripts, nil
}
