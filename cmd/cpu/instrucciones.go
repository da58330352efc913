package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Instrucciones de un script
const (
	OpAlloc = "ALLOC" // ALLOC <región> <tamaño>
	OpFree  = "FREE"  // FREE <región>
	OpRead  = "READ"  // READ <región> <offset>
	OpWrite = "WRITE" // WRITE <región> <offset> <valor>
)

var cantidadArgumentos = map[string]int{
	OpAlloc: 2,
	OpFree:  1,
	OpRead:  2,
	OpWrite: 3,
}

// Instruccion es una línea ya decodificada de un script
type Instruccion struct {
	Linea     int
	Operacion string
	Args      []int
}

func (i Instruccion) String() string {
	partes := []string{i.Operacion}
	for _, a := range i.Args {
		partes = append(partes, strconv.Itoa(a))
	}
	return strings.Join(partes, " ")
}

// parsearScript lee un script de a una instrucción por línea. Las líneas
// vacías y las que empiezan con # se ignoran.
func parsearScript(r io.Reader) ([]Instruccion, error) {
	var instrucciones []Instruccion

	scanner := bufio.NewScanner(r)
	for nro := 1; scanner.Scan(); nro++ {
		linea := strings.TrimSpace(scanner.Text())
		if linea == "" || strings.HasPrefix(linea, "#") {
			continue
		}

		instruccion, err := decodificar(nro, linea)
		if err != nil {
			return nil, err
		}
		instrucciones = append(instrucciones, instruccion)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error leyendo script")
	}

	return instrucciones, nil
}

func decodificar(nro int, linea string) (Instruccion, error) {
	partes := strings.Fields(linea)
	operacion := strings.ToUpper(partes[0])

	cantidad, existe := cantidadArgumentos[operacion]
	if !existe {
		return Instruccion{}, fmt.Errorf("línea %d: instrucción desconocida %q", nro, partes[0])
	}
	if len(partes)-1 != cantidad {
		return Instruccion{}, fmt.Errorf("línea %d: %s espera %d parámetros, llegaron %d", nro, operacion, cantidad, len(partes)-1)
	}

	args := make([]int, cantidad)
	for i, p := range partes[1:] {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Instruccion{}, fmt.Errorf("línea %d: parámetro %q no es un entero", nro, p)
		}
		args[i] = v
	}

	return Instruccion{Linea: nro, Operacion: operacion, Args: args}, nil
}
